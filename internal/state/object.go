package state

// Kind is the type tag the surface attaches to every drawable.
type Kind string

const (
	KindRect     Kind = "rect"
	KindEllipse  Kind = "ellipse"
	KindLine     Kind = "line"
	KindTriangle Kind = "triangle"
	KindArrow    Kind = "arrow"
	KindPath     Kind = "path"
	KindText     Kind = "i-text"
	KindImage    Kind = "image"
)

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Object is anything the surface can render and select.
//
// ID and Order are the only fields owned by the whiteboard. Everything else is
// geometry and style contributed by the surface and the tools. Paths and
// arrows keep their Points relative to (Left, Top); lines keep absolute
// endpoints.
type Object struct {
	ID    string `json:"id,omitempty"`
	Order int64  `json:"order,omitempty"`

	Type   Kind    `json:"type"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	Angle  float64 `json:"angle,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	Visible       bool `json:"visible"`
	Selectable    bool `json:"selectable"`
	LockMovementX bool `json:"lockMovementX,omitempty"`
	LockMovementY bool `json:"lockMovementY,omitempty"`

	RX float64 `json:"rx,omitempty"`
	RY float64 `json:"ry,omitempty"`

	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	Points []Point `json:"points,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty"`

	// Src is a data URL for image objects.
	Src string `json:"src,omitempty"`
}

// Record is the serialized form of an Object as it travels on the
// synchronization stream.
type Record Object

// NewObject returns a visible, selectable, unscaled object of the given kind.
func NewObject(kind Kind) *Object {
	return &Object{
		Type:       kind,
		ScaleX:     1,
		ScaleY:     1,
		Visible:    true,
		Selectable: true,
	}
}

// ToRecord serializes the object. The returned record shares no memory with o.
func (o *Object) ToRecord() Record {
	r := Record(*o)
	if o.Points != nil {
		r.Points = append([]Point(nil), o.Points...)
	}
	return r
}

// FromRecord builds a live object from a record.
func FromRecord(r Record) *Object {
	o := Object(r)
	if r.Points != nil {
		o.Points = append([]Point(nil), r.Points...)
	}
	if o.ScaleX == 0 {
		o.ScaleX = 1
	}
	if o.ScaleY == 0 {
		o.ScaleY = 1
	}
	return &o
}

// Translate moves the object by (dx, dy).
func (o *Object) Translate(dx, dy float64) {
	o.Left += dx
	o.Top += dy
	if o.Type == KindLine {
		o.X1 += dx
		o.X2 += dx
		o.Y1 += dy
		o.Y2 += dy
	}
}

// HasStroke reports whether the object carries a stroke color.
func (o *Object) HasStroke() bool {
	return o.Stroke != ""
}

// HasFill reports whether the object carries a fill color.
func (o *Object) HasFill() bool {
	return o.Fill != ""
}
