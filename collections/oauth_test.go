package collections_test

import (
	"testing"

	"staffpricing/collections"
	"staffpricing/config"
	"staffpricing/testhelpers"
)

func TestEnableMicrosoftLogin(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.EnableMicrosoftLogin(app, config.MicrosoftConfig{}); err != nil {
		t.Fatalf("disabled config: %v", err)
	}
	col, _ := app.FindCollectionByNameOrId("staff")
	if col.OAuth2.Enabled {
		t.Fatal("oauth2 enabled without a client id")
	}

	ms := config.MicrosoftConfig{ClientID: "app-id", ClientSecret: "s3cret", Tenant: "contoso.onmicrosoft.com"}
	for range 2 {
		if err := collections.EnableMicrosoftLogin(app, ms); err != nil {
			t.Fatalf("EnableMicrosoftLogin: %v", err)
		}
	}

	col, _ = app.FindCollectionByNameOrId("staff")
	if !col.OAuth2.Enabled {
		t.Fatal("expected oauth2 to be enabled")
	}
	if len(col.OAuth2.Providers) != 1 {
		t.Fatalf("expected one provider after two calls, got %d", len(col.OAuth2.Providers))
	}
	p, ok := col.OAuth2.GetProviderConfig("microsoft")
	if !ok {
		t.Fatal("microsoft provider missing")
	}
	if p.ClientId != "app-id" || p.AuthURL != "https://login.microsoftonline.com/contoso.onmicrosoft.com/oauth2/v2.0/authorize" {
		t.Errorf("provider = %+v", p)
	}
	if col.OAuth2.MappedFields.Name != "name" {
		t.Errorf("mapped name field = %q", col.OAuth2.MappedFields.Name)
	}
}
