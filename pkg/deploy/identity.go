package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Identity is the AWS principal a deployment runs as.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// IdentityVerifier confirms that usable AWS credentials are configured.
type IdentityVerifier interface {
	Verify(ctx context.Context, region string) (*Identity, error)
}

// STSAPI is the subset of the STS client used here.
type STSAPI interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// STSVerifier verifies the identity with STS GetCallerIdentity.
type STSVerifier struct {
	// NewClient builds the STS client for a region. Nil uses the default
	// AWS credential chain.
	NewClient func(ctx context.Context, region string) (STSAPI, error)
}

// NewSTSVerifier returns a verifier backed by the default credential chain.
func NewSTSVerifier() *STSVerifier {
	return &STSVerifier{NewClient: defaultSTSClient}
}

func defaultSTSClient(ctx context.Context, region string) (STSAPI, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return sts.NewFromConfig(cfg), nil
}

// Verify returns the caller identity in region.
func (v *STSVerifier) Verify(ctx context.Context, region string) (*Identity, error) {
	newClient := v.NewClient
	if newClient == nil {
		newClient = defaultSTSClient
	}
	client, err := newClient(ctx, region)
	if err != nil {
		return nil, err
	}

	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to verify AWS identity: %w", err)
	}
	if aws.ToString(out.Account) == "" {
		return nil, errors.New("failed to verify AWS identity: empty account")
	}
	return &Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
