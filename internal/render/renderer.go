package render

import "context"

type Renderer interface {
	RenderStream(ctx context.Context, page StreamPage) ([]byte, error)
	RenderPost(ctx context.Context, page PostPage) ([]byte, error)
	RenderGroup(ctx context.Context, page GroupPage) ([]byte, error)
	RenderOverview(ctx context.Context, page OverviewPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}
