package model

// AssetID identifies a registered asset on chain.
type AssetID string

// AssetInfo captures immutable asset reference data owned by the registry.
type AssetInfo struct {
	ID        AssetID `json:"id"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Icon      string  `json:"icon,omitempty"`
	Visible   bool    `json:"visible"`
	Precision int32   `json:"precision"`
}
