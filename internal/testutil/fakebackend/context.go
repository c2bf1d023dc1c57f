package fakebackend

import "context"

type bodyKey struct{}

// withBody stores the decoded request body, since the recording middleware
// has already consumed r.Body.
func withBody(ctx context.Context, body map[string]any) context.Context {
	return context.WithValue(ctx, bodyKey{}, body)
}

func bodyFrom(ctx context.Context) map[string]any {
	body, _ := ctx.Value(bodyKey{}).(map[string]any)
	return body
}
