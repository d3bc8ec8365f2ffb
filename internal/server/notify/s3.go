package notify

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// seams for tests
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Config locates the outbox bucket. Works against MinIO with static
// root credentials.
type S3Config struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Bucket       string
}

// S3Notifier drops rendered verification mails into an outbox bucket as
// .eml objects. A separate relay picks them up and delivers them.
type S3Notifier struct {
	client  putObjectAPI
	bucket  string
	from    string
	baseURL string
	now     func() time.Time
}

func NewS3Notifier(ctx context.Context, cfg S3Config, from, baseURL string) (*S3Notifier, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3Notifier(client, cfg.Bucket, from, baseURL), nil
}

func newS3Notifier(client putObjectAPI, bucket, from, baseURL string) *S3Notifier {
	return &S3Notifier{
		client:  client,
		bucket:  bucket,
		from:    from,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// outboxKey spreads objects by date: outbox/2025/1/31/<uuid>.eml
func (n *S3Notifier) outboxKey() string {
	d := n.now().UTC()
	return fmt.Sprintf("outbox/%d/%d/%d/%s.eml", d.Year(), d.Month(), d.Day(), uuid.NewString())
}

func (n *S3Notifier) SendVerification(ctx context.Context, address, code string) error {
	msg := NewVerificationMessage(n.from, address, VerificationLink(n.baseURL, address, code))
	msg.Date = n.now().UTC()

	key := n.outboxKey()
	_, err := n.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(n.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(msg.Bytes()),
		ContentType: aws.String("message/rfc822"),
		Metadata: map[string]string{
			"recipient": address,
		},
	})
	if err != nil {
		return fmt.Errorf("s3 put error: %w", err)
	}
	return nil
}
