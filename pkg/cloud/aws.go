// Package cloud builds cloud SDK configuration from the aws preset.
package cloud

import (
	"context"

	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/pkg/errors"
)

// AWSConfig loads an aws.Config using the region and static credentials from
// s. optFns are applied after them, so callers can override either or add
// options such as config.WithBaseEndpoint for LocalStack.
func AWSConfig(ctx context.Context, s preset.AWSSettings, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
	if err := s.Validate(); err != nil {
		return aws.Config{}, errors.Wrap(err, "invalid AWS settings")
	}

	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, ""),
		),
	}
	configOpts = append(configOpts, optFns...)

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "failed to load AWS configuration")
	}
	return cfg, nil
}
