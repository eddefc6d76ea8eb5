package gds

// LayerAssignment is a GDSII layer/datatype pair.
type LayerAssignment struct {
	Layer    int16 `json:"layer"`
	Datatype int16 `json:"datatype"`
}

// LayerConfig maps the three emitted element classes to layer assignments.
// Callers may override any assignment; the encoder applies it as-is.
type LayerConfig struct {
	WaferOutline  LayerAssignment `json:"wafer_outline"`
	UsableOutline LayerAssignment `json:"usable_outline"`
	Die           LayerAssignment `json:"die"`
}

// DefaultLayerConfig returns the conventional assignment: wafer outline on
// layer 0, usable-area outline on layer 1, dies on layer 2, all datatype 0.
func DefaultLayerConfig() LayerConfig {
	return LayerConfig{
		WaferOutline:  LayerAssignment{Layer: 0, Datatype: 0},
		UsableOutline: LayerAssignment{Layer: 1, Datatype: 0},
		Die:           LayerAssignment{Layer: 2, Datatype: 0},
	}
}
