package types

type (
	NodeSubmission struct {
		// Identifier of the block this node instantiates
		BlockID string `json:"block_id" validate:"required"`
		// Pinned input values for the node. Arbitrary JSON object.
		ConstantInput map[string]any `json:"constant_input"`
		// Arbitrary JSON object attached to the node by the editor
		Metadata map[string]any `json:"metadata"`
	}

	GraphSubmission struct {
		Name        string           `json:"name"        validate:"required,max=128"`
		Description string           `json:"description" validate:"max=2048"`
		Nodes       []NodeSubmission `json:"nodes"       validate:"required,min=1,dive"`
	}

	NodeResponse struct {
		ID            string         `json:"id"             validate:"required,uuid_rfc4122"`
		BlockID       string         `json:"block_id"       validate:"required"`
		ConstantInput map[string]any `json:"constant_input"`
		Metadata      map[string]any `json:"metadata"`
	}

	GraphResponse struct {
		ID          string         `json:"id"          validate:"required,uuid_rfc4122"`
		Name        string         `json:"name"        validate:"required"`
		Description string         `json:"description"`
		Version     int            `json:"version"     validate:"required"`
		IsActive    bool           `json:"is_active"`
		Nodes       []NodeResponse `json:"nodes"`
	}
)
