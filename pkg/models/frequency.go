package models

// MappedSample is one curve point resolved to physical units.
type MappedSample struct {
	FrequencyMHz   float64 `json:"frequency_mhz" doc:"Frequency in MHz"`
	AttenuationDBV float64 `json:"attenuation_dbv" doc:"Attenuation in dBV relative to the 0 dBV reference"`
	VoltScale      float64 `json:"volt_scale_factor" doc:"Linear voltage ratio, 10^(dBV/20)"`
	PixelX         int     `json:"pixel_x" doc:"Source pixel column"`
	PixelY         float64 `json:"pixel_y" doc:"Source pixel row (midpoint of the matching run)"`
}

// InterpolatedSample is an attenuation estimate at an arbitrary frequency
type InterpolatedSample struct {
	FrequencyMHz   float64 `json:"frequency_mhz" doc:"Frequency in MHz"`
	AttenuationDBV float64 `json:"attenuation_dbv" doc:"Interpolated attenuation in dBV"`
	VoltScale      float64 `json:"volt_scale_factor" doc:"Linear voltage ratio derived from the interpolated dBV"`
}
