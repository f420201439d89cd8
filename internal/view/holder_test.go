package view_test

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"taskboard/internal/query"
	"taskboard/internal/testutil"
	"taskboard/internal/view"
)

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func seedTasks(svc *testutil.FakeService, userID string, n int) {
	for i := 0; i < n; i++ {
		svc.AddTask(userID, "t"+string(rune('a'+i)), "task "+string(rune('a'+i)))
	}
}

// gatedService holds ListTasks calls for gated pages until released.
func gatedService(t *testing.T, pages ...int) (*testutil.FakeService, func(page int)) {
	t.Helper()
	var mu sync.Mutex
	gates := make(map[int]chan struct{})
	for _, p := range pages {
		gates[p] = make(chan struct{})
	}
	svc := testutil.NewFakeService()
	svc.BeforeListTasks = func(ctx context.Context, q query.Query) {
		mu.Lock()
		gate, ok := gates[q.Page]
		mu.Unlock()
		if ok {
			<-gate
		}
	}
	release := func(page int) {
		mu.Lock()
		defer mu.Unlock()
		close(gates[page])
	}
	return svc, release
}

func TestNewTasks_EagerFirstFetch(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTasks(svc, "u1", 3)

	v := view.NewTasks(context.Background(), svc, query.Query{Filter: query.Filter{UserID: "u1"}})
	snap, err := v.Wait(waitCtx(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Calls("ListTasks") != 1 {
		t.Errorf("expected one fetch, got %d", svc.Calls("ListTasks"))
	}
	if snap.Err != nil || len(snap.Result.Data) != 3 || snap.Seq != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.Query.PageSize != query.DefaultPageSize || snap.Query.Page != 1 {
		t.Errorf("expected normalized query, got %+v", snap.Query)
	}
}

func TestRefresh_MergesOntoLastQuery(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTasks(svc, "u1", 5)

	initial := query.Query{PageSize: 2, Sort: query.Desc, Filter: query.Filter{UserID: "u1", Title: "task"}}
	v := view.NewTasks(context.Background(), svc, initial)

	snap, err := view.RefreshTasks(context.Background(), v, query.Override{Page: query.Ptr(2)}).Wait(waitCtx(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := query.Query{Page: 2, PageSize: 2, Sort: query.Desc, Filter: query.Filter{UserID: "u1", Title: "task"}}
	if snap.Query != want {
		t.Errorf("expected %+v, got %+v", want, snap.Query)
	}
	if v.Query() != want {
		t.Errorf("expected last query %+v, got %+v", want, v.Query())
	}
	if len(snap.Result.Data) != 2 || snap.Result.Data[0].ID != "tc" {
		t.Errorf("unexpected page data %+v", snap.Result.Data)
	}
}

func TestRefresh_LastToResolveWins(t *testing.T) {
	svc, release := gatedService(t, 1, 2)
	seedTasks(svc, "u1", 15)
	ctx := waitCtx(t)

	v := view.NewTasks(context.Background(), svc, query.Query{Page: 3, Filter: query.Filter{UserID: "u1"}})
	if _, err := v.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	page2 := view.RefreshTasks(context.Background(), v, query.Override{Page: query.Ptr(2)})
	page1 := view.RefreshTasks(context.Background(), v, query.Override{Page: query.Ptr(1)})

	release(1)
	if _, err := page1.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if got := v.Current().Query.Page; got != 1 {
		t.Fatalf("expected page 1 current after it resolved, got %d", got)
	}

	release(2)
	if _, err := page2.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	// Unfenced: the earlier-issued fetch resolved last and replaced page 1.
	if got := v.Current().Query.Page; got != 2 {
		t.Errorf("expected page 2 current after it resolved last, got %d", got)
	}
}

func TestRefresh_FencedKeepsLatestIssued(t *testing.T) {
	svc, release := gatedService(t, 1, 2)
	seedTasks(svc, "u1", 15)
	ctx := waitCtx(t)

	v := view.NewTasks(context.Background(), svc, query.Query{Page: 3, Filter: query.Filter{UserID: "u1"}}, view.WithFencing())
	if _, err := v.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	page2 := view.RefreshTasks(context.Background(), v, query.Override{Page: query.Ptr(2)})
	page1 := view.RefreshTasks(context.Background(), v, query.Override{Page: query.Ptr(1)})

	release(1)
	if _, err := page1.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	release(2)
	snap2, err := page2.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if got := v.Current().Query.Page; got != 1 {
		t.Errorf("expected page 1 to stay current, got %d", got)
	}
	if snap2.Query.Page != 2 || len(snap2.Result.Data) != 5 {
		t.Errorf("fetch handle should still carry its own result, got %+v", snap2)
	}
}

func TestRefresh_IdempotentWithoutChanges(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTasks(svc, "u1", 4)
	ctx := waitCtx(t)
	v := view.NewTasks(context.Background(), svc, query.Query{Filter: query.Filter{UserID: "u1"}})

	first, err := v.Refresh(context.Background(), nil).Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := v.Refresh(context.Background(), nil).Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Fatal("expected distinct snapshots")
	}
	if !reflect.DeepEqual(first.Result, second.Result) || first.Query != second.Query {
		t.Errorf("expected equal content:\n%+v\n%+v", first.Result, second.Result)
	}
}

func TestRefresh_ReplacesWithoutMutatingOldSnapshot(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTasks(svc, "u1", 2)
	ctx := waitCtx(t)
	v := view.NewTasks(context.Background(), svc, query.Query{Filter: query.Filter{UserID: "u1"}})

	old, err := v.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	svc.AddTask("u1", "tz", "new task")
	v.Trigger(context.Background())
	cur, err := v.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if len(old.Result.Data) != 2 || old.Seq != 1 {
		t.Errorf("old snapshot changed: %+v", old)
	}
	if len(cur.Result.Data) != 3 || cur.Seq != 2 {
		t.Errorf("unexpected current snapshot %+v", cur)
	}
}

func TestRefresh_FailureReplacesSnapshot(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTasks(svc, "u1", 2)
	ctx := waitCtx(t)
	v := view.NewTasks(context.Background(), svc, query.Query{Filter: query.Filter{UserID: "u1"}})
	if _, err := v.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	svc.ListTasksErr = testutil.ServerError()
	snap, err := v.Refresh(context.Background(), nil).Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Err == nil || v.Current() != snap {
		t.Errorf("expected failed snapshot to be current, got %+v", v.Current())
	}
	if svc.Calls("ListTasks") != 2 {
		t.Errorf("failed loads must not be retried, got %d fetches", svc.Calls("ListTasks"))
	}
}

func TestUsers_SharedPerService(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("u1", "a@b.com")
	ctx := waitCtx(t)

	a := view.Users(context.Background(), svc)
	b := view.Users(context.Background(), svc)
	if a != b {
		t.Fatal("expected the same view for the same service")
	}
	if other := view.Users(context.Background(), testutil.NewFakeService()); other == a {
		t.Error("expected a separate view for another service")
	}

	snap, err := a.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Result) != 1 || svc.Calls("ListUsers") != 1 {
		t.Errorf("expected one eager fetch, got %d users, %d calls", len(snap.Result), svc.Calls("ListUsers"))
	}
}
