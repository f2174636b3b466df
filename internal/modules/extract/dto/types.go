package dto

type ExtractInput struct {
	Path string
}

type ExtractOutput struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	Extractor string `json:"extractor,omitempty"`
}

type ExtractorInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Formats []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}
