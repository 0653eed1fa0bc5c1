package dataprovider

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DeleteMany issues one DELETE per id concurrently. It is all-or-nothing:
// when any delete fails the call returns that error and no ids, even though
// other deletes may have gone through. On success Data holds the deleted ids
// in completion order.
func (p *Provider) DeleteMany(ctx context.Context, resource string, params DeleteManyParams) (Result, error) {
	ctx, span := p.startSpan(ctx, resource, OperationDeleteMany)
	defer span.End()

	deleted, err := p.deleteMany(ctx, resource, params)
	if err != nil {
		return Result{}, p.fail(ctx, span, resource, OperationDeleteMany, err)
	}
	p.succeed(ctx, resource, OperationDeleteMany)
	return Result{Data: deleted}, nil
}

func (p *Provider) deleteMany(ctx context.Context, resource string, params DeleteManyParams) ([]any, error) {
	creds, err := p.readCredentials()
	if err != nil {
		return nil, err
	}

	requests := make([]Request, 0, len(params.IDs))
	for _, id := range params.IDs {
		request, err := p.buildRequest(creds, resource, DeleteParams{ID: id})
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	var (
		mu      sync.Mutex
		deleted = make([]any, 0, len(requests))
		group   errgroup.Group
	)
	if p.deleteManyConcurrency > 0 {
		group.SetLimit(p.deleteManyConcurrency)
	}

	for idx, request := range requests {
		requestedID := params.IDs[idx]
		group.Go(func() error {
			response, err := p.fetcher.Fetch(ctx, request)
			if err != nil {
				return err
			}

			id, ok := responseID(response.Body)
			if !ok {
				id = requestedID
			}

			mu.Lock()
			deleted = append(deleted, id)
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return deleted, nil
}
