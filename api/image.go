package api

type Image struct {
	Key     string `json:"key" yaml:"key"`
	Title   string `json:"title" yaml:"title"`
	Raw     string `json:"raw" yaml:"raw"`
	URL     string `json:"url" yaml:"url"`
	Created string `json:"created" yaml:"created"`
}

type AddImageRequest struct {
	Title string `json:"title"`
	Raw   string `json:"raw"`
}

type ImportRequest struct {
	Text string `json:"text"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type NormalizeResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
