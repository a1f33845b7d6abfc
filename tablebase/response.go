package tablebase

// RawResponse mirrors the JSON body of the remote tablebase's standard
// endpoint. Category and per-move values are exactly as the wire carries
// them: the top-level category is relative to the side to move in the
// queried position, each move's category is relative to the side to move
// in the position *after* that move. Normalization into a composable
// representation happens in normalize.go, never here.
type RawResponse struct {
	Category             string    `json:"category"`
	DTZ                  *int      `json:"dtz"`
	DTM                  *int      `json:"dtm"`
	Checkmate            bool      `json:"checkmate"`
	Stalemate            bool      `json:"stalemate"`
	InsufficientMaterial bool      `json:"insufficient_material"`
	Moves                []RawMove `json:"moves"`
}

// RawMove is one candidate move as reported by the service.
type RawMove struct {
	UCI       string `json:"uci"`
	SAN       string `json:"san"`
	Category  string `json:"category"`
	DTZ       *int   `json:"dtz"`
	DTM       *int   `json:"dtm"`
	Zeroing   bool   `json:"zeroing"`
	Checkmate bool   `json:"checkmate"`
	Stalemate bool   `json:"stalemate"`
}
