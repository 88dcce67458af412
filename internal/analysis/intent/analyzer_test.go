package intent

import "testing"

func TestClassifyBookingKeyword(t *testing.T) {
	if got := Classify("I need an Appointment with a cardiologist"); got != Booking {
		t.Fatalf("expected booking intent, got %s", got)
	}
}

func TestClassifySymptomKeyword(t *testing.T) {
	if got := Classify("These symptoms worry me"); got != Symptom {
		t.Fatalf("expected symptom intent, got %s", got)
	}
}

func TestClassifyBookingWinsOverSymptom(t *testing.T) {
	if got := Classify("my symptoms need an appointment"); got != Booking {
		t.Fatalf("expected booking intent to take precedence, got %s", got)
	}
}

func TestClassifyGeneralFallback(t *testing.T) {
	if got := Classify("What is hypertension?"); got != General {
		t.Fatalf("expected general intent, got %s", got)
	}
}

func TestIsCancelCaseInsensitive(t *testing.T) {
	for _, input := range []string{"cancel", "CANCEL", "Cancel", "  cancel  "} {
		if !IsCancel(input) {
			t.Fatalf("expected %q to be a cancel command", input)
		}
	}
	if IsCancel("cancel it") {
		t.Fatal("expected partial match to be rejected")
	}
}

func TestIsConfirmCaseInsensitive(t *testing.T) {
	if !IsConfirm("Confirm") {
		t.Fatal("expected confirm command to match")
	}
	if IsConfirm("confirmed") {
		t.Fatal("expected non-exact input to be rejected")
	}
}
