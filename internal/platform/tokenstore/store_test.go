package tokenstore

import (
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_States(t *testing.T) {
	s := NewMemoryStore()

	s.PutState("state-1")
	if !s.HasState("state-1") {
		t.Error("expected state-1 to be recorded")
	}
	if s.HasState("state-2") {
		t.Error("did not expect state-2")
	}
}

func TestMemoryStore_Tokens(t *testing.T) {
	s := NewMemoryStore()

	rec := TokenRecord{
		Data:      map[string]interface{}{"access_token": "abc", "token_type": "Bearer"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.PutToken("abc", rec)

	got, ok := s.GetToken("abc")
	if !ok {
		t.Fatal("expected token to be recorded")
	}
	if got.Data["token_type"] != "Bearer" {
		t.Errorf("unexpected record: %v", got.Data)
	}
	if _, ok := s.GetToken("missing"); ok {
		t.Error("did not expect a record for an unknown token")
	}
}

func TestMemoryStore_KindsDoNotOverlap(t *testing.T) {
	s := NewMemoryStore()

	s.PutState("shared-key")
	if _, ok := s.GetToken("shared-key"); ok {
		t.Error("a state marker must not be readable as a token")
	}
	s.PutToken("tok", TokenRecord{})
	if s.HasState("tok") {
		t.Error("a token record must not be readable as a state")
	}
}

func TestMemoryStore_NoEviction(t *testing.T) {
	s := NewMemoryStore()

	s.PutToken("expired", TokenRecord{ExpiresAt: time.Now().Add(-time.Hour)})
	if _, ok := s.GetToken("expired"); !ok {
		t.Error("expired records must remain readable; the store never evicts")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.PutState(string(rune('a' + n%26)))
			s.PutToken("tok", TokenRecord{})
			s.GetToken("tok")
		}(i)
	}
	wg.Wait()

	if _, ok := s.GetToken("tok"); !ok {
		t.Error("expected token to survive concurrent writes")
	}
}
