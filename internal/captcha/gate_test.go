package captcha

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"applypilot/internal/browser/browsertest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastGate(fake *browsertest.Fake) *Gate {
	g := NewGate(fake, quietLogger())
	g.pollEvery = 5 * time.Millisecond
	g.settle = 0
	return g
}

func TestPresent_StructuralMarker(t *testing.T) {
	fake := browsertest.New()
	fake.SetPresent("iframe[src*='recaptcha']")

	g := NewGate(fake, quietLogger())
	if !g.Present(context.Background()) {
		t.Fatal("recaptcha iframe not detected")
	}
}

func TestPresent_PhraseIndicator(t *testing.T) {
	fake := browsertest.New()
	fake.BodyText = "Please complete this security check to continue"

	g := NewGate(fake, quietLogger())
	if !g.Present(context.Background()) {
		t.Fatal("phrase indicator not detected")
	}
}

func TestPresent_ExtensiblePhrases(t *testing.T) {
	fake := browsertest.New()
	fake.BodyText = "Bitte bestätigen Sie, dass Sie kein Roboter sind"

	g := NewGate(fake, quietLogger())
	if g.Present(context.Background()) {
		t.Fatal("unexpected hit before adding phrase")
	}
	g.AddPhrases("kein roboter")
	if !g.Present(context.Background()) {
		t.Fatal("added phrase not detected")
	}
}

func TestPresent_CleanPage(t *testing.T) {
	fake := browsertest.New()
	fake.BodyText = "Senior captain of industry wanted" // no indicator words

	g := NewGate(fake, quietLogger())
	if g.Present(context.Background()) {
		t.Fatal("false positive on clean page")
	}
}

func TestAwaitResolution_NoChallenge(t *testing.T) {
	fake := browsertest.New()
	g := fastGate(fake)

	if !g.AwaitResolution(context.Background(), time.Second) {
		t.Fatal("clear page should resolve immediately")
	}
}

func TestAwaitResolution_ResolvedWithinBound(t *testing.T) {
	fake := browsertest.New()
	fake.BodyText = "please solve this captcha"
	g := fastGate(fake)

	go func() {
		time.Sleep(20 * time.Millisecond)
		fake.BodyText = "welcome back"
	}()

	if !g.AwaitResolution(context.Background(), time.Second) {
		t.Fatal("expected resolution once indicator cleared")
	}
}

func TestAwaitResolution_TimeoutBoundaryExclusive(t *testing.T) {
	// Challenge stays up just past the bound: the wait must fail, not spin.
	fake := browsertest.New()
	fake.BodyText = "please solve this captcha"
	g := fastGate(fake)

	start := time.Now()
	if g.AwaitResolution(context.Background(), 50*time.Millisecond) {
		t.Fatal("expected timeout while challenge still present")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("returned before the bound elapsed: %v", elapsed)
	}
}

func TestAwaitResolution_Cancellation(t *testing.T) {
	fake := browsertest.New()
	fake.BodyText = "please solve this captcha"
	g := fastGate(fake)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if g.AwaitResolution(ctx, time.Minute) {
		t.Fatal("expected false on cancelled context")
	}
}
