package soundgen

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"storia/internal/paths"
)

type fakeUploader struct {
	exists      bool
	bucket      string
	key         string
	data        []byte
	contentType string
	err         error
}

func (f *fakeUploader) Key(name string) string { return "storia/" + name }

func (f *fakeUploader) Exists(ctx context.Context, key string) (bool, error) { return f.exists, nil }

func (f *fakeUploader) UploadBytes(ctx context.Context, key string, data []byte, contentType, cacheControl string) error {
	f.key = key
	f.data = append([]byte(nil), data...)
	f.contentType = contentType
	return f.err
}

var audio = []byte{0x49, 0x44, 0x33, 0x04, 0x00, 0xfe}

func TestDeliverToFileSuppressesStdout(t *testing.T) {
	var stdout bytes.Buffer
	target := filepath.Join(t.TempDir(), "sub", "rain.mp3")
	dest, err := paths.ParseDestination(target)
	if err != nil {
		t.Fatalf("ParseDestination: %v", err)
	}
	if err := (Sink{Stdout: &stdout, Overwrite: true}).Deliver(context.Background(), dest, audio); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Fatalf("file bytes mismatch: %v", got)
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty when writing a file, got %d bytes", stdout.Len())
	}
}

func TestDeliverToStdout(t *testing.T) {
	var stdout bytes.Buffer
	if err := (Sink{Stdout: &stdout}).Deliver(context.Background(), paths.Destination{Kind: paths.Stdout}, audio); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if !bytes.Equal(stdout.Bytes(), audio) {
		t.Fatalf("stdout bytes mismatch: %v", stdout.Bytes())
	}
}

func TestDeliverRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "rain.mp3")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dest := paths.Destination{Kind: paths.File, Path: target}
	if err := (Sink{Overwrite: false}).Deliver(context.Background(), dest, audio); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	got, _ := os.ReadFile(target)
	if string(got) != "old" {
		t.Fatalf("existing file was modified")
	}
}

func TestDeliverToS3(t *testing.T) {
	var stdout bytes.Buffer
	up := &fakeUploader{}
	sink := Sink{
		Stdout: &stdout,
		NewUploader: func(ctx context.Context, bucket string) (Uploader, error) {
			up.bucket = bucket
			return up, nil
		},
	}
	dest, err := paths.ParseDestination("s3://media/ambiance/rain.mp3")
	if err != nil {
		t.Fatalf("ParseDestination: %v", err)
	}
	if err := sink.Deliver(context.Background(), dest, audio); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if up.bucket != "media" || up.key != "storia/ambiance/rain.mp3" {
		t.Fatalf("unexpected object: bucket=%s key=%s", up.bucket, up.key)
	}
	if !bytes.Equal(up.data, audio) || up.contentType != "audio/mpeg" {
		t.Fatalf("upload payload mismatch")
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty for s3 output")
	}
}

func TestDeliverS3Failure(t *testing.T) {
	up := &fakeUploader{err: errors.New("boom")}
	sink := Sink{NewUploader: func(ctx context.Context, bucket string) (Uploader, error) { return up, nil }}
	err := sink.Deliver(context.Background(), paths.Destination{Kind: paths.S3, Bucket: "b", Key: "k"}, audio)
	if err == nil {
		t.Fatalf("expected upload error")
	}
}

func TestDeliverS3RefusesExistingObject(t *testing.T) {
	up := &fakeUploader{exists: true}
	sink := Sink{NewUploader: func(ctx context.Context, bucket string) (Uploader, error) { return up, nil }}
	err := sink.Deliver(context.Background(), paths.Destination{Kind: paths.S3, Bucket: "b", Key: "k.mp3"}, audio)
	if err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if up.data != nil {
		t.Fatalf("nothing should be uploaded")
	}

	sink.Overwrite = true
	if err := sink.Deliver(context.Background(), paths.Destination{Kind: paths.S3, Bucket: "b", Key: "k.mp3"}, audio); err != nil {
		t.Fatalf("Deliver with overwrite: %v", err)
	}
}
