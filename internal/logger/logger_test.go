package logger

import "testing"

func TestDebugModeToggle(t *testing.T) {
	defer SetDebugMode(false)

	SetDebugMode(false)
	if IsDebugMode() {
		t.Error("Debug mode should be off by default")
	}

	SetDebugMode(true)
	if !IsDebugMode() {
		t.Error("Debug mode should be on after SetDebugMode(true)")
	}

	SetDebugMode(false)
	if IsDebugMode() {
		t.Error("Debug mode should be off again")
	}
}
