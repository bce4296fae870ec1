package engine

import "testing"

func TestEventQueueDrainOnce(t *testing.T) {
	var q EventQueue[int]
	q.Send(1)
	q.Send(2)

	if q.Len() != 2 {
		t.Fatalf("Expected 2 pending, got %d", q.Len())
	}

	got := q.Drain()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected [1 2], got %v", got)
	}

	if again := q.Drain(); again != nil {
		t.Errorf("Second drain should be empty, got %v", again)
	}
}

func TestEventWithArgInvoke(t *testing.T) {
	var e EventWithArg[string]
	var got []string
	e.AddListener(func(s string) { got = append(got, "a:"+s) })
	e.AddListener(nil)
	e.AddListener(func(s string) { got = append(got, "b:"+s) })

	if e.GetListenerCount() != 2 {
		t.Errorf("Expected 2 listeners, got %d", e.GetListenerCount())
	}

	e.Invoke("x")
	if len(got) != 2 || got[0] != "a:x" || got[1] != "b:x" {
		t.Errorf("Unexpected invocation order %v", got)
	}

	e.RemoveAllListeners()
	e.Invoke("y")
	if len(got) != 2 {
		t.Error("Listeners should not fire after RemoveAllListeners")
	}
}
