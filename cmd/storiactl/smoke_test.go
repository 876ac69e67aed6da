package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"storia/internal/ai"
	cfgpkg "storia/internal/config"
)

type fakeAccount struct {
	user *ai.ElevenLabsUser
	err  error
}

func (f *fakeAccount) User(ctx context.Context) (*ai.ElevenLabsUser, error) { return f.user, f.err }

func TestSmokeElevenLabs(t *testing.T) {
	stub(t, []string{"ELEVENLABS_API_KEY=xi-test"})
	acct := &fakeAccount{user: &ai.ElevenLabsUser{UserID: "u1", Subscription: ai.ElevenLabsSubscription{Tier: "free"}}}
	newAccountClient = func(cfg cfgpkg.Config) (accountClient, error) {
		if cfg.ElevenLabsAPIKey != "xi-test" {
			t.Errorf("key not forwarded: %q", cfg.ElevenLabsAPIKey)
		}
		return acct, nil
	}
	if code := run([]string{"smoke-elevenlabs", "--env-dir", t.TempDir()}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	acct.err = &ai.ElevenLabsAPIError{StatusCode: 401, Status: "401 Unauthorized"}
	if code := run([]string{"smoke-elevenlabs", "--env-dir", t.TempDir()}); code != 1 {
		t.Fatalf("expected exit 1 on api error, got %d", code)
	}
}

func TestSmokeElevenLabsMissingKey(t *testing.T) {
	stub(t, nil)
	called := false
	newAccountClient = func(cfg cfgpkg.Config) (accountClient, error) {
		called = true
		return &fakeAccount{}, nil
	}
	if code := run([]string{"smoke-elevenlabs", "--env-dir", t.TempDir()}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if called {
		t.Fatalf("client should not be built without a key")
	}
}

func TestSmokeAmbiance(t *testing.T) {
	f := stub(t, []string{"OPENAI_API_KEY=sk-test"})
	if code := run([]string{"smoke-ambiance", "--env-dir", t.TempDir()}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	var res map[string]any
	if err := json.Unmarshal(f.stdout.Bytes(), &res); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if res["ambiance_prompt"] != "rain and fire" || f.text.calls != 1 {
		t.Fatalf("unexpected result: %v", res)
	}
}

func TestSmokeAmbianceFailures(t *testing.T) {
	stub(t, nil)
	if code := run([]string{"smoke-ambiance", "--env-dir", t.TempDir()}); code != 1 {
		t.Fatalf("expected exit 1 without key, got %d", code)
	}

	f := stub(t, []string{"OPENAI_API_KEY=sk-test"})
	f.text.err = errors.New("timeout")
	if code := run([]string{"smoke-ambiance", "--env-dir", t.TempDir()}); code != 1 {
		t.Fatalf("expected exit 1 on service error, got %d", code)
	}
}

func TestSmokeMusicWritesFile(t *testing.T) {
	f := stub(t, []string{"ELEVENLABS_API_KEY=xi-test"})
	target := filepath.Join(t.TempDir(), "smoke.mp3")
	if code := run([]string{"smoke-music", "--env-dir", t.TempDir(), "--output", target}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, f.sound.audio) {
		t.Fatalf("unexpected file content: %q", got)
	}
	if f.sound.req.DurationSeconds != smokeDuration || f.sound.req.Text != samplePrompt {
		t.Fatalf("unexpected request: %+v", f.sound.req)
	}
	if f.stdout.Len() != 0 {
		t.Fatalf("stdout should be empty")
	}
}

func TestSmokeMusicEmptyAudioFails(t *testing.T) {
	f := stub(t, []string{"ELEVENLABS_API_KEY=xi-test"})
	f.sound.audio = nil
	target := filepath.Join(t.TempDir(), "smoke.mp3")
	if code := run([]string{"smoke-music", "--env-dir", t.TempDir(), "--output", target}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("no file should be written on failure")
	}
}
