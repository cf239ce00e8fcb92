package sync

import (
	"context"
	"testing"
	"time"

	"github.com/tradeforge/listsync/internal/domain/listings"
)

func TestRemoveAll_WipesEverything(t *testing.T) {
	p := newFakePrices("67.11")
	inv := newFakeInventory()
	c := newFakeClient()
	c.seed(listings.Listing{ID: "a", SKU: "190;6", Intent: listings.IntentBuy})
	c.seed(listings.Listing{ID: "b", SKU: "378;6", Intent: listings.IntentSell, InstanceID: "i1"})

	r := newReconciler(p, inv, c)
	if err := r.RemoveAll(context.Background()); err != nil {
		t.Fatalf("remove all: %v", err)
	}

	if c.cleared != 1 {
		t.Fatalf("pending creates not cleared")
	}
	if len(c.byID) != 0 {
		t.Fatalf("%d listings left", len(c.byID))
	}
	if c.flushes != 1 {
		t.Fatalf("flushes = %d", c.flushes)
	}
	if r.State.Removing() {
		t.Fatalf("removal flag not cleared")
	}
}

func TestRemoveAll_RetriesWholeProcedureOnFlushFailure(t *testing.T) {
	p := newFakePrices("67.11")
	inv := newFakeInventory()
	c := newFakeClient()
	c.seed(listings.Listing{ID: "a", SKU: "190;6", Intent: listings.IntentBuy})
	c.flushFails = 1

	r := newReconciler(p, inv, c)
	// keep the retry backoff short
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	if err := r.RemoveAll(ctx); err != nil {
		t.Fatalf("remove all: %v", err)
	}
	if c.flushes != 2 {
		t.Fatalf("flushes = %d, want a retry", c.flushes)
	}
	if time.Since(start) < time.Second/2 {
		t.Fatalf("retry skipped the backoff wait")
	}
}

func TestRemoveAll_SignalsSweepCancellation(t *testing.T) {
	p := newFakePrices("67.11")
	inv := newFakeInventory()
	c := newFakeClient()

	r := newReconciler(p, inv, c)
	if !r.State.BeginSweep(nil) {
		t.Fatalf("begin sweep")
	}
	if err := r.RemoveAll(context.Background()); err != nil {
		t.Fatalf("remove all: %v", err)
	}
	if !r.State.CancelRequested() {
		t.Fatalf("running sweep was not asked to cancel")
	}
}

func TestRemoveAll_ConcurrentCallersCollapse(t *testing.T) {
	p := newFakePrices("67.11")
	inv := newFakeInventory()
	c := newFakeClient()

	r := newReconciler(p, inv, c)
	if !r.State.BeginRemoval(nil) {
		t.Fatalf("begin removal")
	}
	// two callers arrive mid-removal; both defer, only one is queued
	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_ = r.RemoveAll(context.Background())
			done <- struct{}{}
		}()
	}
	<-done
	<-done

	queued := r.State.EndRemoval()
	if len(queued) != 1 {
		t.Fatalf("queued = %d, want 1", len(queued))
	}
}

func TestWaitForStableCount_ResolvesOnTwoEqualPolls(t *testing.T) {
	p := newFakePrices("67.11")
	inv := newFakeInventory()
	c := newFakeClient()
	c.counts = []int{5, 3, 3}

	r := newReconciler(p, inv, c)
	if err := r.waitForStableCount(context.Background()); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if c.countCalls != 3 {
		t.Fatalf("polls = %d, want 3", c.countCalls)
	}
}

func TestWaitForStableCount_StopsOnContext(t *testing.T) {
	p := newFakePrices("67.11")
	inv := newFakeInventory()
	c := newFakeClient()
	// never-stable sequence, far longer than the context allows
	for i := 0; i < 100; i++ {
		c.counts = append(c.counts, 1+i%2)
	}

	r := newReconciler(p, inv, c)
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	if err := r.waitForStableCount(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRedo_RemovesThenSchedulesSweep(t *testing.T) {
	p := newFakePrices("67.11", bankEntry("190;6", "Bat"))
	inv := newFakeInventory()
	inv.canBuy["190;6"] = 1
	c := newFakeClient()
	c.seed(listings.Listing{ID: "a", SKU: "190;6", Intent: listings.IntentBuy})

	r := newReconciler(p, inv, c)
	if err := r.Redo(context.Background()); err != nil {
		t.Fatalf("redo: %v", err)
	}

	// the rebuild sweep runs in the background
	deadline := time.After(2 * time.Second)
	for {
		if len(c.listingsFor("190;6")) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("rebuild sweep never recreated the listing")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
