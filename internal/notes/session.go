package notes

import (
	"context"
	"crypto/sha256"
	"strings"

	interrors "github.com/dlane/voicenotes/internal/errors"
	"github.com/dlane/voicenotes/internal/logger"
)

// State describes where a capture session is in its lifecycle.
type State int

const (
	StateEmpty State = iota
	StateCaptured
	StateTranscribed
	StateTyped
)

func (s State) String() string {
	switch s {
	case StateCaptured:
		return "captured"
	case StateTranscribed:
		return "transcribed"
	case StateTyped:
		return "typed"
	default:
		return "empty"
	}
}

// Session holds the ephemeral draft for one note: captured audio, its
// content fingerprint, the editable transcript, and typed text. A transcript
// is never attributed to different audio than the one last transcribed;
// replacing the audio with content-different bytes discards it. A successful
// save resets the session so the next note starts clean.
type Session struct {
	wf          *Workflow
	audio       []byte
	fingerprint [sha256.Size]byte
	transcript  string
	typed       string
}

// State derives the current lifecycle state. A non-empty transcript wins
// over captured audio; typed text only counts when no audio is held.
func (s *Session) State() State {
	switch {
	case s.transcript != "":
		return StateTranscribed
	case len(s.audio) > 0:
		return StateCaptured
	case s.typed != "":
		return StateTyped
	default:
		return StateEmpty
	}
}

// SetAudio replaces the captured audio. Fingerprints are compared by
// content: a recording with identical bytes keeps the existing transcript,
// anything else clears it.
func (s *Session) SetAudio(audio []byte) {
	fp := sha256.Sum256(audio)
	if fp != s.fingerprint && s.transcript != "" {
		logger.Debug("Audio fingerprint changed, discarding stale transcript")
		s.transcript = ""
	}
	s.audio = audio
	s.fingerprint = fp
}

// Audio returns the captured audio bytes, nil when none are held.
func (s *Session) Audio() []byte {
	return s.audio
}

// SetTranscript lets the user edit the transcript before saving.
func (s *Session) SetTranscript(text string) {
	s.transcript = text
}

// SetTyped replaces the typed-note text.
func (s *Session) SetTyped(text string) {
	s.typed = text
}

// Text returns the candidate text a save would persist: the transcript when
// audio has been transcribed, the typed text otherwise.
func (s *Session) Text() string {
	if s.transcript != "" {
		return s.transcript
	}
	return s.typed
}

// Transcribe sends the captured audio to the transcription service and
// stores the transcript. User-triggered, never automatic; calling it again
// overwrites the previous transcript. On failure the draft is untouched.
func (s *Session) Transcribe(ctx context.Context) (string, error) {
	if len(s.audio) == 0 {
		return "", interrors.ErrNoAudio
	}

	text, err := s.wf.Transcribe(ctx, s.audio)
	if err != nil {
		return "", err
	}

	s.transcript = text
	return text, nil
}

// Save persists the candidate text as a new record and resets the session.
// Blocked when the text is empty or whitespace-only; nothing is embedded or
// upserted in that case. On a remote failure the draft survives so the user
// can retry.
func (s *Session) Save(ctx context.Context) (string, error) {
	text := s.Text()
	if strings.TrimSpace(text) == "" {
		return "", interrors.ErrEmptyNote
	}

	id, err := s.wf.SaveNote(ctx, text)
	if err != nil {
		return "", err
	}

	s.Reset()
	return id, nil
}

// Reset clears all draft state.
func (s *Session) Reset() {
	s.audio = nil
	s.fingerprint = [sha256.Size]byte{}
	s.transcript = ""
	s.typed = ""
}
