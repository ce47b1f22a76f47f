package config

// Profile is one named tuning preset from the profile file. Every field is
// a pointer so an omitted key leaves the corresponding Config value alone;
// zero is a meaningful setting for most of these knobs.
type Profile struct {
	// Threshold is an explicit binarization threshold in [0, 255].
	Threshold *int `yaml:"threshold,omitempty"`

	// Invert flips the detected ink polarity.
	Invert *bool `yaml:"invert,omitempty"`

	// MaxDimension caps the working image size.
	MaxDimension *int `yaml:"maxDimension,omitempty"`

	// Rotation is a right-angle pre-rotation in degrees.
	Rotation *int `yaml:"rotation,omitempty"`

	// Despeckle toggles the isolated-pixel cleanup pass.
	Despeckle *bool `yaml:"despeckle,omitempty"`

	// MinComponentSize drops components below this pixel count.
	MinComponentSize *int `yaml:"minComponentSize,omitempty"`

	// CloseRadius is the morphological closing disk radius.
	CloseRadius *int `yaml:"closeRadius,omitempty"`

	// SkeletonMaxIterations caps the thinning loop.
	SkeletonMaxIterations *int `yaml:"skeletonMaxIterations,omitempty"`

	// RDPEpsilon is the simplification tolerance in pixels.
	RDPEpsilon *float64 `yaml:"rdpEpsilon,omitempty"`

	// ResampleSpacing is the output point spacing in pixels.
	ResampleSpacing *float64 `yaml:"resampleSpacing,omitempty"`

	// SmoothIterations is the Chaikin iteration count.
	SmoothIterations *int `yaml:"smoothIterations,omitempty"`

	// StrokeWidth and StrokeColor style the SVG output.
	StrokeWidth *float64 `yaml:"strokeWidth,omitempty"`
	StrokeColor *string  `yaml:"strokeColor,omitempty"`
}

// File represents the structure of the .sigvec profile file.
type File struct {
	// Profiles maps preset names to tuning overrides, e.g. "scanned-form"
	// or "whiteboard-photo".
	Profiles map[string]Profile `yaml:"profiles,omitempty"`

	// Defaults is applied to every run before any named profile.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// GetProfile returns the preset for name merged over the file defaults.
// An empty name yields just the defaults. The boolean reports whether a
// non-empty name actually exists in the file.
func (f *File) GetProfile(name string) (Profile, bool) {
	merged := f.Defaults
	if name == "" {
		return merged, true
	}

	p, ok := f.Profiles[name]
	if !ok {
		return merged, false
	}
	merged.override(p)
	return merged, true
}

// Apply copies every set field of the profile onto the config.
func (p Profile) Apply(c *Config) {
	if p.Threshold != nil {
		c.Threshold = *p.Threshold
	}
	if p.Invert != nil {
		c.Invert = *p.Invert
	}
	if p.MaxDimension != nil {
		c.MaxDimension = *p.MaxDimension
	}
	if p.Rotation != nil {
		c.Rotation = *p.Rotation
	}
	if p.Despeckle != nil {
		c.Despeckle = *p.Despeckle
	}
	if p.MinComponentSize != nil {
		c.MinComponentSize = *p.MinComponentSize
	}
	if p.CloseRadius != nil {
		c.CloseRadius = *p.CloseRadius
	}
	if p.SkeletonMaxIterations != nil {
		c.SkeletonMaxIterations = *p.SkeletonMaxIterations
	}
	if p.RDPEpsilon != nil {
		c.RDPEpsilon = *p.RDPEpsilon
	}
	if p.ResampleSpacing != nil {
		c.ResampleSpacing = *p.ResampleSpacing
	}
	if p.SmoothIterations != nil {
		c.SmoothIterations = *p.SmoothIterations
	}
	if p.StrokeWidth != nil {
		c.StrokeWidth = *p.StrokeWidth
	}
	if p.StrokeColor != nil {
		c.StrokeColor = *p.StrokeColor
	}
}

// override copies every set field of o onto p.
func (p *Profile) override(o Profile) {
	if o.Threshold != nil {
		p.Threshold = o.Threshold
	}
	if o.Invert != nil {
		p.Invert = o.Invert
	}
	if o.MaxDimension != nil {
		p.MaxDimension = o.MaxDimension
	}
	if o.Rotation != nil {
		p.Rotation = o.Rotation
	}
	if o.Despeckle != nil {
		p.Despeckle = o.Despeckle
	}
	if o.MinComponentSize != nil {
		p.MinComponentSize = o.MinComponentSize
	}
	if o.CloseRadius != nil {
		p.CloseRadius = o.CloseRadius
	}
	if o.SkeletonMaxIterations != nil {
		p.SkeletonMaxIterations = o.SkeletonMaxIterations
	}
	if o.RDPEpsilon != nil {
		p.RDPEpsilon = o.RDPEpsilon
	}
	if o.ResampleSpacing != nil {
		p.ResampleSpacing = o.ResampleSpacing
	}
	if o.SmoothIterations != nil {
		p.SmoothIterations = o.SmoothIterations
	}
	if o.StrokeWidth != nil {
		p.StrokeWidth = o.StrokeWidth
	}
	if o.StrokeColor != nil {
		p.StrokeColor = o.StrokeColor
	}
}
