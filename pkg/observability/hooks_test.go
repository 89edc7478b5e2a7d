package observability

import "testing"

type recordingHooks struct {
	NoopEditorHooks
	gestures []string
	undos    int
}

func (r *recordingHooks) OnGestureBegin(kind string) { r.gestures = append(r.gestures, kind) }
func (r *recordingHooks) OnUndo(int)                 { r.undos++ }

func TestSetAndResetEditorHooks(t *testing.T) {
	defer Reset()

	rec := &recordingHooks{}
	SetEditorHooks(rec)

	Editor().OnGestureBegin("resize")
	Editor().OnUndo(3)

	if len(rec.gestures) != 1 || rec.gestures[0] != "resize" {
		t.Fatalf("gestures = %v", rec.gestures)
	}
	if rec.undos != 1 {
		t.Fatalf("undos = %d", rec.undos)
	}

	Reset()
	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Fatal("Reset did not restore the no-op hooks")
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	defer Reset()

	rec := &recordingHooks{}
	SetEditorHooks(rec)
	SetEditorHooks(nil)

	if Editor() != EditorHooks(rec) {
		t.Fatal("nil registration replaced the active hooks")
	}
}
