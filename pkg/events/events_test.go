package events

import "testing"

func TestSubject(t *testing.T) {
	if got := Subject("bookings", ActionCreated); got != "corejob.bookings.created" {
		t.Fatalf("unexpected subject %q", got)
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Publish(Subject("users", ActionDeleted), map[string]string{"_id": "x"})
	r.Publish(Subject("users", ActionCreated), nil)

	subjects := r.Subjects()
	if len(subjects) != 2 || subjects[0] != "corejob.users.deleted" || subjects[1] != "corejob.users.created" {
		t.Fatalf("unexpected subjects %v", subjects)
	}
}
