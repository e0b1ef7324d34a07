package notes

import (
	"context"
	"errors"
	"testing"

	interrors "github.com/dlane/voicenotes/internal/errors"
)

type fakeTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

func newTestSession(transcriber *fakeTranscriber) (*Session, *memStore) {
	store := &memStore{}
	wf := NewWorkflow(store, &topicEmbedder{}, transcriber)
	return wf.NewSession(), store
}

func TestSessionStateTransitions(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "buy milk"}
	session, _ := newTestSession(transcriber)
	ctx := context.Background()

	if session.State() != StateEmpty {
		t.Errorf("New session should be empty, got %v", session.State())
	}

	session.SetAudio([]byte("mp3-bytes"))
	if session.State() != StateCaptured {
		t.Errorf("Expected captured after SetAudio, got %v", session.State())
	}

	if _, err := session.Transcribe(ctx); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if session.State() != StateTranscribed {
		t.Errorf("Expected transcribed after Transcribe, got %v", session.State())
	}

	if _, err := session.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if session.State() != StateEmpty {
		t.Errorf("Session should reset to empty after save, got %v", session.State())
	}
}

func TestSessionTypedPath(t *testing.T) {
	session, store := newTestSession(&fakeTranscriber{})
	ctx := context.Background()

	session.SetTyped("quarterly budget report")
	if session.State() != StateTyped {
		t.Errorf("Expected typed state, got %v", session.State())
	}

	id, err := session.Save(ctx)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == "" {
		t.Error("Save should return the new record id")
	}
	if len(store.records) != 1 || store.records[0].text != "quarterly budget report" {
		t.Errorf("Typed text should be stored verbatim, got %+v", store.records)
	}
}

func TestSessionFingerprintInvalidation(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "original transcript"}
	session, _ := newTestSession(transcriber)
	ctx := context.Background()

	session.SetAudio([]byte("recording-a"))
	if _, err := session.Transcribe(ctx); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	// Identical content in a fresh slice must not clear the transcript:
	// fingerprints compare by content, not object identity.
	same := append([]byte(nil), []byte("recording-a")...)
	session.SetAudio(same)
	if session.Text() != "original transcript" {
		t.Error("Identical-content audio must not clear the transcript")
	}
	if session.State() != StateTranscribed {
		t.Errorf("Expected transcribed state, got %v", session.State())
	}

	// Content-different audio must discard the stale transcript before any
	// new transcription is requested.
	session.SetAudio([]byte("recording-b"))
	if session.Text() != "" {
		t.Errorf("Stale transcript must be cleared, got %q", session.Text())
	}
	if session.State() != StateCaptured {
		t.Errorf("Expected revert to captured, got %v", session.State())
	}
}

func TestSessionTranscriptEdit(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "by milk and legs"}
	session, store := newTestSession(transcriber)
	ctx := context.Background()

	session.SetAudio([]byte("recording-a"))
	if _, err := session.Transcribe(ctx); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	// The user corrects the machine transcript. The edit counts as the
	// transcribed path: the audio fingerprint is untouched.
	session.SetTranscript("buy milk and eggs")
	if session.State() != StateTranscribed {
		t.Errorf("Edited transcript should keep the transcribed state, got %v", session.State())
	}

	// Re-capturing identical-content audio keeps the edited text.
	session.SetAudio([]byte("recording-a"))
	if session.Text() != "buy milk and eggs" {
		t.Errorf("Identical-content audio must keep the edited transcript, got %q", session.Text())
	}

	if _, err := session.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(store.records) != 1 || store.records[0].text != "buy milk and eggs" {
		t.Errorf("Save must persist the edited transcript, got %+v", store.records)
	}
}

func TestSessionTranscriptEditClearedByNewAudio(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "first recording"}
	session, _ := newTestSession(transcriber)
	ctx := context.Background()

	session.SetAudio([]byte("recording-a"))
	if _, err := session.Transcribe(ctx); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	session.SetTranscript("first recording, corrected")

	session.SetAudio([]byte("recording-b"))
	if session.Text() != "" {
		t.Errorf("Content-different audio must clear the edited transcript, got %q", session.Text())
	}
	if session.State() != StateCaptured {
		t.Errorf("Expected revert to captured, got %v", session.State())
	}
}

func TestSessionRetranscribeOverwrites(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "first pass"}
	session, _ := newTestSession(transcriber)
	ctx := context.Background()

	session.SetAudio([]byte("recording-a"))
	if _, err := session.Transcribe(ctx); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	transcriber.transcript = "second pass"
	text, err := session.Transcribe(ctx)
	if err != nil {
		t.Fatalf("Re-transcribe failed: %v", err)
	}
	if text != "second pass" || session.Text() != "second pass" {
		t.Errorf("Re-transcribing should overwrite the transcript, got %q", session.Text())
	}
	if transcriber.calls != 2 {
		t.Errorf("Expected 2 transcription calls, got %d", transcriber.calls)
	}
}

func TestSessionTranscribeWithoutAudio(t *testing.T) {
	session, _ := newTestSession(&fakeTranscriber{transcript: "anything"})

	_, err := session.Transcribe(context.Background())
	if !errors.Is(err, interrors.ErrNoAudio) {
		t.Errorf("Expected ErrNoAudio, got %v", err)
	}
}

func TestSessionTranscribeFailureKeepsDraft(t *testing.T) {
	svcErr := &interrors.ServiceError{Service: "transcription", Err: errors.New("auth failure")}
	transcriber := &fakeTranscriber{err: svcErr}
	session, _ := newTestSession(transcriber)

	session.SetAudio([]byte("recording-a"))
	_, err := session.Transcribe(context.Background())
	if !interrors.IsServiceError(err) {
		t.Fatalf("Expected ServiceError, got %v", err)
	}

	// The audio survives so the user can retry manually.
	if session.State() != StateCaptured {
		t.Errorf("Draft audio must survive a failed transcription, got %v", session.State())
	}
	if len(session.Audio()) == 0 {
		t.Error("Audio bytes must be left intact after a failure")
	}
}

func TestSessionSaveBlockedOnBlankText(t *testing.T) {
	session, store := newTestSession(&fakeTranscriber{})
	ctx := context.Background()

	session.SetTyped("   \n\t ")
	_, err := session.Save(ctx)
	if !errors.Is(err, interrors.ErrEmptyNote) {
		t.Errorf("Expected ErrEmptyNote, got %v", err)
	}
	if store.upserts != 0 {
		t.Error("Blocked save must not reach the store")
	}

	// A blocked save leaves the draft alone.
	if session.Text() == "" {
		t.Error("Draft text should survive a blocked save")
	}
}

func TestSessionSaveFailureKeepsDraft(t *testing.T) {
	store := &memStore{}
	wf := NewWorkflow(store, failingEmbedder{}, &fakeTranscriber{})
	session := wf.NewSession()

	session.SetTyped("buy milk")
	_, err := session.Save(context.Background())
	if !interrors.IsServiceError(err) {
		t.Fatalf("Expected ServiceError, got %v", err)
	}
	if session.Text() != "buy milk" {
		t.Errorf("Draft must be intact after a failed save, got %q", session.Text())
	}
}
