package http

import "context"

func req() context.Context {
	return context.Background()
}
