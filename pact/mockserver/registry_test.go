package mockserver

import "testing"

func TestRegistryPutAndGet(t *testing.T) {
	r := NewRegistry()
	s := NewServer()
	r.Put(s)

	got, err := r.Get(s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != s {
		t.Errorf("expected to get back the same server instance")
	}
}

func TestRegistryGetMissingReturnsErrServerNotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("does-not-exist")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if _, ok := err.(*ErrServerNotFound); !ok {
		t.Errorf("expected *ErrServerNotFound, got %T", err)
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	s := NewServer()
	r.Put(s)
	r.Remove(s.ID)

	if _, err := r.Get(s.ID); err == nil {
		t.Errorf("expected server to be removed")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	a, b := NewServer(), NewServer()
	r.Put(a)
	r.Put(b)

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(list))
	}
}

func TestRegistryGetByPort(t *testing.T) {
	r := NewRegistry()
	s := NewServer().WithAddress("127.0.0.1:54321")
	r.Put(s)

	got, err := r.GetByPort("54321")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != s {
		t.Errorf("expected to get back the same server instance")
	}
}

func TestRegistryGetByPortMissingReturnsErrServerPortNotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.GetByPort("54321")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if _, ok := err.(*ErrServerPortNotFound); !ok {
		t.Errorf("expected *ErrServerPortNotFound, got %T", err)
	}
}

func TestRegistryRemoveByPort(t *testing.T) {
	r := NewRegistry()
	s := NewServer().WithAddress("127.0.0.1:54321")
	r.Put(s)
	r.RemoveByPort("54321")

	if _, err := r.GetByPort("54321"); err == nil {
		t.Errorf("expected server to be removed by port")
	}
	if _, err := r.Get(s.ID); err == nil {
		t.Errorf("expected server to also be removed from the id index")
	}
}

func TestRegistryRemoveClearsPortIndex(t *testing.T) {
	r := NewRegistry()
	s := NewServer().WithAddress("127.0.0.1:54321")
	r.Put(s)
	r.Remove(s.ID)

	if _, err := r.GetByPort("54321"); err == nil {
		t.Errorf("expected port index entry to be removed alongside the id entry")
	}
}
