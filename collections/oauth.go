package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/auth"

	"staffpricing/config"
)

const microsoftLoginBase = "https://login.microsoftonline.com/"

// EnableMicrosoftLogin turns on the Microsoft OAuth2 provider of the staff
// collection. The staff create rule stays closed, so only accounts that
// already exist with a matching e-mail can sign in this way.
func EnableMicrosoftLogin(app core.App, ms config.MicrosoftConfig) error {
	if !ms.Enabled() {
		return nil
	}
	col, err := app.FindCollectionByNameOrId("staff")
	if err != nil {
		return fmt.Errorf("staff collection: %w", err)
	}

	provider := core.OAuth2ProviderConfig{
		Name:         auth.NameMicrosoft,
		ClientId:     ms.ClientID,
		ClientSecret: ms.ClientSecret,
		AuthURL:      microsoftLoginBase + ms.Tenant + "/oauth2/v2.0/authorize",
		TokenURL:     microsoftLoginBase + ms.Tenant + "/oauth2/v2.0/token",
		DisplayName:  "Microsoft",
	}
	providers := []core.OAuth2ProviderConfig{provider}
	for _, p := range col.OAuth2.Providers {
		if p.Name != auth.NameMicrosoft {
			providers = append(providers, p)
		}
	}
	col.OAuth2.Enabled = true
	col.OAuth2.Providers = providers
	col.OAuth2.MappedFields.Name = "name"

	if err := app.Save(col); err != nil {
		return fmt.Errorf("enabling microsoft login: %w", err)
	}
	log.Printf("auth: microsoft login enabled for tenant %s", ms.Tenant)
	return nil
}
