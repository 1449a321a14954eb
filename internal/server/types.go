package server

// CreateRequest is the JSON body for POST /api/puzzles. Either Sample names
// an embedded puzzle, or Outline and Image carry the puzzle inline.
type CreateRequest struct {
	Sample  string `json:"sample,omitempty"`
	Name    string `json:"name,omitempty"`
	Outline string `json:"outline,omitempty"` // vector document text
	Image   string `json:"image,omitempty"`   // base64 image, data URL allowed
}

// Progress counts revealed shapes.
type Progress struct {
	Revealed int `json:"revealed"`
	Total    int `json:"total"`
}

// StateResponse describes a session.
type StateResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Shapes      int      `json:"shapes"`
	Skipped     int      `json:"skipped"`
	Palette     []string `json:"palette"`
	Revealed    []string `json:"revealed"`
	Progress    Progress `json:"progress"`
	Complete    bool     `json:"complete"`
	ActiveColor string   `json:"activeColor,omitempty"`
}

// TapRequest is the JSON body for POST /api/puzzles/{id}/taps.
type TapRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TapResponse reports what a tap did.
type TapResponse struct {
	Shape    string `json:"shape,omitempty"`
	Hit      bool   `json:"hit"`
	Changed  bool   `json:"changed"`
	Complete bool   `json:"complete"`
}

// ActiveColorRequest is the JSON body for PUT /api/puzzles/{id}/active-color.
type ActiveColorRequest struct {
	Color string `json:"color"`
}

type errorResponse struct {
	Error string `json:"error"`
}
