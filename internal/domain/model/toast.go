package model

// ToastCategory classifies a toast. Values match what UI bindings display.
type ToastCategory string

const (
	ToastNetwork     ToastCategory = "Network"
	ToastInfo        ToastCategory = "Info"
	ToastSuccess     ToastCategory = "Success"
	ToastRedirect    ToastCategory = "Redirect"
	ToastClientError ToastCategory = "Client Error"
	ToastServerError ToastCategory = "Server Error"
)

// IsValid reports whether c is one of the known categories
func (c ToastCategory) IsValid() bool {
	switch c {
	case ToastNetwork, ToastInfo, ToastSuccess, ToastRedirect, ToastClientError, ToastServerError:
		return true
	}
	return false
}

// ToastRequest is the input to toast creation; it carries no identity yet.
type ToastRequest struct {
	Category ToastCategory `json:"category"`
	Text     string        `json:"text"`
}

// ToastItem is a toast living in the queue. ID is assigned once at creation.
type ToastItem struct {
	ID       string        `json:"id"`
	Category ToastCategory `json:"category"`
	Text     string        `json:"text"`
	Visible  bool          `json:"visible"`
}
