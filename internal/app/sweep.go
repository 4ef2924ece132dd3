package app

import (
	"context"
	"net/http"

	"github.com/Adda-Baaj/storefront-apitest/pkg/restapi"
)

// sweep deletes items a previous run created but never cleaned up, for
// example because the process was killed mid-case.
func (r *Runner) sweep(ctx context.Context) {
	items, err := r.store.PendingItems()
	if err != nil {
		r.log.ErrorObj("ledger read failed", "error", err.Error())
		return
	}
	if len(items) == 0 {
		return
	}

	removed := 0
	for _, item := range items {
		if ctx.Err() != nil {
			return
		}
		col, ok := r.collections.ByName(item.Collection)
		if !ok {
			r.log.WarnObj("ledger item for unknown collection", "ledger_item", item)
			continue
		}
		res, err := r.env.Resource(col)
		if err != nil {
			r.log.ErrorObj("sweep resource init failed", "error", err.Error())
			return
		}

		resp, err := res.Delete(ctx, item.ID, restapi.ExpectFailure())
		if err != nil {
			r.log.WarnObj("sweep delete failed", "sweep_error", map[string]any{
				"collection": item.Collection,
				"id":         item.ID,
				"error":      err.Error(),
			})
			continue
		}
		if !resp.IsSuccess() && resp.StatusCode != http.StatusNotFound {
			r.log.WarnObj("sweep delete rejected", "sweep_error", map[string]any{
				"collection": item.Collection,
				"id":         item.ID,
				"status":     resp.StatusCode,
			})
			continue
		}
		if err := r.store.ForgetItem(item.Collection, item.ID); err != nil {
			r.log.ErrorObj("ledger update failed", "error", err.Error())
			continue
		}
		removed++
	}

	r.log.InfoObj("ledger swept", "sweep_meta", map[string]any{
		"pending": len(items),
		"removed": removed,
	})
}
