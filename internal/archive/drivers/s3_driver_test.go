package drivers

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockS3Client is a mock implementation of S3API
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func TestS3Driver_Save(t *testing.T) {
	ctx := context.Background()
	client := new(MockS3Client)
	client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "approvals" &&
			aws.ToString(in.Key) == "archive/requests/abc.json" &&
			aws.ToString(in.ContentType) == "application/json"
	})).Return(&s3.PutObjectOutput{}, nil)

	driver := NewS3Driver(client, "approvals", "archive")
	require.NoError(t, driver.Save(ctx, "requests/abc.json", strings.NewReader("{}"), "application/json"))
	client.AssertExpectations(t)
}

func TestS3Driver_Get(t *testing.T) {
	ctx := context.Background()
	client := new(MockS3Client)
	client.On("GetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "requests/abc.json"
	})).Return(&s3.GetObjectOutput{
		Body:        io.NopCloser(strings.NewReader(`{"a":1}`)),
		ContentType: aws.String("application/json"),
	}, nil)

	driver := NewS3Driver(client, "approvals", "")
	body, contentType, err := driver.Get(ctx, "requests/abc.json")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
	assert.Equal(t, "application/json", contentType)
}

func TestS3Driver_Errors(t *testing.T) {
	ctx := context.Background()
	client := new(MockS3Client)
	client.On("GetObject", ctx, mock.Anything).Return(nil, errors.New("NoSuchKey"))
	client.On("DeleteObject", ctx, mock.Anything).Return(nil, errors.New("AccessDenied"))
	client.On("PutObject", ctx, mock.Anything).Return(nil, errors.New("SlowDown"))

	driver := NewS3Driver(client, "approvals", "archive")

	_, _, err := driver.Get(ctx, "missing.json")
	assert.ErrorContains(t, err, "failed to get from S3")
	assert.ErrorContains(t, driver.Delete(ctx, "x.json"), "failed to delete from S3")
	assert.ErrorContains(t, driver.Save(ctx, "x.json", strings.NewReader(""), "text/plain"), "failed to upload to S3")
}
