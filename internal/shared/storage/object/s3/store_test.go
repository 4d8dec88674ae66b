package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"skin-health-backend/internal/shared/storage/object"
)

type fakeS3 struct {
	objects map[string][]byte
	puts    []*s3.PutObjectInput
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	_ = ctx
	_ = optFns
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Key)] = data
	f.puts = append(f.puts, params)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	_ = ctx
	_ = optFns
	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "rash.jpg", want: "rash.jpg"},
		{name: "simple prefix", prefix: "uploads", key: "rash.jpg", want: "uploads/rash.jpg"},
		{name: "prefix trailing slash", prefix: "uploads/", key: "rash.jpg", want: "uploads/rash.jpg"},
		{name: "prefix and key slashes", prefix: "/uploads/", key: "/rash.jpg", want: "uploads/rash.jpg"},
		{name: "nested prefix", prefix: "skin/uploads", key: "rash.jpg", want: "skin/uploads/rash.jpg"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestPutAndOpenThroughClient(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := NewWithClient(fake, "bucket", "uploads/", "")
	ctx := context.Background()

	n, err := store.Put(ctx, "rash.jpg", "image/jpeg", strings.NewReader("pixels"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 bytes, got %d", n)
	}
	if _, ok := fake.objects["uploads/rash.jpg"]; !ok {
		t.Fatalf("expected object under prefixed key, got %v", fake.objects)
	}
	put := fake.puts[0]
	if aws.ToString(put.ContentType) != "image/jpeg" {
		t.Fatalf("unexpected content type %q", aws.ToString(put.ContentType))
	}
	if put.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 encryption, got %q", put.ServerSideEncryption)
	}

	rc, err := store.Open(ctx, "rash.jpg")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "pixels" {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestOpenMissingMapsToNotFound(t *testing.T) {
	store := NewWithClient(&fakeS3{objects: map[string][]byte{}}, "bucket", "", "")
	if _, err := store.Open(context.Background(), "missing.jpg"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestKMSKeyUsesAwsKms(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := NewWithClient(fake, "bucket", "", "kms-key")
	if _, err := store.Put(context.Background(), "a.png", "image/png", strings.NewReader("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if fake.puts[0].ServerSideEncryption != s3types.ServerSideEncryptionAwsKms {
		t.Fatalf("expected aws:kms encryption")
	}
	if aws.ToString(fake.puts[0].SSEKMSKeyId) != "kms-key" {
		t.Fatalf("expected kms key id to be forwarded")
	}
}
