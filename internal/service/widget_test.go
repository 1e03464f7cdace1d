package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vaultpass/passgen-go/internal/generator"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/session"
	"github.com/vaultpass/passgen-go/internal/token"
	"github.com/vaultpass/passgen-go/internal/widget"
)

const testSecret = "test-secret"

func newTestWidgetService(max int) *WidgetService {
	registry := session.NewRegistry(max, time.Minute,
		session.WithWidgetOptions(widget.WithAfterFunc(nil)),
	)
	return NewWidgetService(registry, generator.DefaultOptions(), testSecret, time.Hour)
}

func TestWidgetCreate(t *testing.T) {
	svc := newTestWidgetService(10)

	resp, err := svc.Create(&model.ConfigPatch{Count: intPtr(3), Numbers: boolPtr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("expected widget id")
	}
	if len(resp.State.Entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(resp.State.Entries))
	}
	if !resp.State.Config.Numbers {
		t.Error("expected numbers enabled")
	}

	claims, err := token.Validate(resp.Token, testSecret)
	if err != nil {
		t.Fatalf("token should validate: %v", err)
	}
	if claims.WidgetID != resp.ID {
		t.Errorf("token widget = %q, want %q", claims.WidgetID, resp.ID)
	}
}

func TestWidgetCreate_Full(t *testing.T) {
	svc := newTestWidgetService(1)
	if _, err := svc.Create(nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(nil); !errors.Is(err, ErrTooManyWidgets) {
		t.Errorf("expected ErrTooManyWidgets, got %v", err)
	}
}

func TestWidgetUpdateRegenerates(t *testing.T) {
	svc := newTestWidgetService(10)
	created, _ := svc.Create(nil)

	st, err := svc.Update(created.ID, model.ConfigPatch{Length: intPtr(30), ExcludeSimilar: boolPtr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Config.Length != 30 || !st.Config.ExcludeSimilar {
		t.Errorf("config = %+v", st.Config)
	}
	if len(st.Entries[0].Text) != 30 {
		t.Errorf("expected a 30-character password, got %q", st.Entries[0].Text)
	}
	if st.Config.Lowercase != true {
		t.Error("unpatched fields must keep their values")
	}
}

func TestWidgetCopy(t *testing.T) {
	svc := newTestWidgetService(10)
	created, _ := svc.Create(&model.ConfigPatch{Count: intPtr(2)})

	resp, err := svc.Copy(created.ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != created.State.Entries[1].Text {
		t.Errorf("copied %q, want %q", resp.Text, created.State.Entries[1].Text)
	}
	if !resp.State.Entries[1].Copied || resp.State.Entries[0].Copied {
		t.Errorf("feedback = %+v", resp.State.Entries)
	}

	if _, err := svc.Copy(created.ID, 9); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestWidgetCopy_Placeholder(t *testing.T) {
	svc := newTestWidgetService(10)
	created, _ := svc.Create(&model.ConfigPatch{Uppercase: boolPtr(false), Lowercase: boolPtr(false)})

	if !created.State.Entries[0].Placeholder {
		t.Fatalf("expected placeholder, got %+v", created.State.Entries)
	}
	if _, err := svc.Copy(created.ID, 0); !errors.Is(err, ErrNothingToCopy) {
		t.Errorf("expected ErrNothingToCopy, got %v", err)
	}
}

func TestWidgetKey(t *testing.T) {
	svc := newTestWidgetService(10)
	created, _ := svc.Create(nil)

	resp, err := svc.Key(created.ID, model.KeyRequest{Combo: "ctrl+c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Action != string(widget.ActionCopyFirst) || resp.Text != created.State.Entries[0].Text {
		t.Errorf("response = %+v", resp)
	}

	resp, err = svc.Key(created.ID, model.KeyRequest{Combo: "alt+g"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Action != string(widget.ActionRegenerate) {
		t.Errorf("action = %q", resp.Action)
	}
	if resp.State.Entries[0].Copied {
		t.Error("regeneration should clear feedback")
	}
}

func TestWidgetNotFound(t *testing.T) {
	svc := newTestWidgetService(10)

	if _, err := svc.State("nope"); !errors.Is(err, ErrWidgetNotFound) {
		t.Errorf("State: expected ErrWidgetNotFound, got %v", err)
	}
	if _, err := svc.Regenerate("nope"); !errors.Is(err, ErrWidgetNotFound) {
		t.Errorf("Regenerate: expected ErrWidgetNotFound, got %v", err)
	}
	if err := svc.Delete("nope"); !errors.Is(err, ErrWidgetNotFound) {
		t.Errorf("Delete: expected ErrWidgetNotFound, got %v", err)
	}
}

func TestWidgetDelete(t *testing.T) {
	svc := newTestWidgetService(10)
	created, _ := svc.Create(nil)

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.State(created.ID); !errors.Is(err, ErrWidgetNotFound) {
		t.Errorf("expected ErrWidgetNotFound after delete, got %v", err)
	}
}

func TestWidgetConcurrentUpdatesDoNotOverwrite(t *testing.T) {
	svc := newTestWidgetService(10)
	created, err := svc.Create(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 300; i++ {
		if _, err := svc.Update(created.ID, model.ConfigPatch{Numbers: boolPtr(false), Symbols: boolPtr(false)}); err != nil {
			t.Fatalf("reset: %v", err)
		}

		var wg sync.WaitGroup
		for _, patch := range []model.ConfigPatch{{Numbers: boolPtr(true)}, {Symbols: boolPtr(true)}} {
			wg.Add(1)
			go func(p model.ConfigPatch) {
				defer wg.Done()
				if _, err := svc.Update(created.ID, p); err != nil {
					t.Errorf("update: %v", err)
				}
			}(patch)
		}
		wg.Wait()

		st, err := svc.State(created.ID)
		if err != nil {
			t.Fatalf("state: %v", err)
		}
		if !st.Config.Numbers || !st.Config.Symbols {
			t.Fatalf("iteration %d: lost update, config %+v", i, st.Config)
		}
	}
}
