package store

import (
	"go-chat-client/internal/domain/model"
	"go-chat-client/internal/infrastructure/connection"
)

// Stores groups the client-side state shared by the application services
// and the UI bindings. Build one per client with New; there are no globals.
type Stores struct {
	Connection        *Observable[connection.Handle]
	Messages          *Observable[[]model.ChatMessage]
	Name              *Observable[string]
	HasRegisteredName *Observable[bool]
	Toasts            *Observable[[]model.ToastItem]
}

func New() *Stores {
	return &Stores{
		Connection: NewObservable[connection.Handle](nil).WithEquals(func(a, b connection.Handle) bool {
			return a == b
		}),
		Messages:          NewObservable[[]model.ChatMessage](nil),
		Name:              NewObservable("").WithEquals(func(a, b string) bool { return a == b }),
		HasRegisteredName: NewObservable(false).WithEquals(func(a, b bool) bool { return a == b }),
		Toasts:            NewObservable[[]model.ToastItem](nil).WithEquals(SameToastIDs),
	}
}

// SameToastIDs reports whether two queues hold the same ids in the same order.
// Toast items are immutable once created, so identity implies equality.
func SameToastIDs(a, b []model.ToastItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
