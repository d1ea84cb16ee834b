package shared

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// loadKeyFromSecretManager fetches the latest version of the signing key
// secret. This is the one external boundary crossing in key loading.
func loadKeyFromSecretManager(ctx context.Context, projectID, secretID string) ([]byte, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %v", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access secret version: %v", err)
	}

	return resp.Payload.GetData(), nil
}
