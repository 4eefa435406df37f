package container

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Source is an io.ReaderAt over a single S3 object, satisfied with ranged
// GetObject calls. It is the read-side dual of a multipart-upload sink: the
// object's full length is learned once up front (via HeadObject) so that
// archive/zip's central-directory-first reader can seek freely over it.
type S3Source struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	size   int64
}

// NewS3Source opens an S3 object as a random-access source. The caller
// supplies an already-configured client (e.g. built via
// config.LoadDefaultConfig); this package never reads AWS credentials or
// region configuration itself.
func NewS3Source(ctx context.Context, client *s3.Client, bucket, key string) (*S3Source, error) {
	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("container: head s3://%s/%s: %w", bucket, key, err)
	}
	size := int64(0)
	if head.ContentLength != nil {
		size = *head.ContentLength
	}
	return &S3Source{ctx: ctx, client: client, bucket: bucket, key: key, size: size}, nil
}

// Size returns the object's content length, as reported by HeadObject.
func (s *S3Source) Size() int64 { return s.size }

// ReadAt implements io.ReaderAt by issuing a ranged GetObject for exactly
// the requested span.
func (s *S3Source) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	last := off + int64(len(p)) - 1
	rng := fmt.Sprintf("bytes=%d-%d", off, last)
	out, err := s.client.GetObject(s.ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(rng),
	})
	if err != nil {
		return 0, fmt.Errorf("container: get s3://%s/%s range %s: %w", s.bucket, s.key, rng, err)
	}
	defer out.Body.Close()
	return io.ReadFull(out.Body, p)
}

// OpenS3 opens a workbook container backed by an S3 object.
func OpenS3(ctx context.Context, client *s3.Client, bucket, key string) (*Container, error) {
	src, err := NewS3Source(ctx, client, bucket, key)
	if err != nil {
		return nil, err
	}
	return OpenReader(src, src.Size())
}
