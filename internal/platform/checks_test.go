package platform

import (
	"fmt"
	"path/filepath"
	"testing"

	"dbctx/internal/apperror"
)

const localXML = `<?xml version="1.0"?>
<config>
    <global>
        <resources>
            <default_setup>
                <connection>
                    <host><![CDATA[localhost]]></host>
                    <dbname><![CDATA[%s]]></dbname>
                </connection>
            </default_setup>
        </resources>
    </global>
</config>`

func magentoRoot(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	touch(t, filepath.Join(root, MagentoOneLocalXML), content)
	return root
}

func TestCheckMagentoOne(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		database string
		kind     apperror.Kind
		wantErr  bool
	}{
		{
			name:     "matching database",
			content:  fmt.Sprintf(localXML, "test_db"),
			database: "test_db",
		},
		{
			name:     "production database configured",
			content:  fmt.Sprintf(localXML, "shop_live"),
			database: "test_db",
			kind:     apperror.KindConfigurationMismatch,
			wantErr:  true,
		},
		{
			name:     "prefix is not a match",
			content:  fmt.Sprintf(localXML, "test_db_old"),
			database: "test_db",
			kind:     apperror.KindConfigurationMismatch,
			wantErr:  true,
		},
		{
			name:     "missing dbname node",
			content:  "<config><global><resources/></global></config>",
			database: "test_db",
			kind:     apperror.KindConfiguration,
			wantErr:  true,
		},
		{
			name:     "padded dbname is not a match",
			content:  fmt.Sprintf(localXML, " test_db "),
			database: "test_db",
			kind:     apperror.KindConfigurationMismatch,
			wantErr:  true,
		},
		{
			name:     "malformed xml",
			content:  "<config><global>",
			database: "test_db",
			kind:     apperror.KindConfiguration,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckMagentoOne(magentoRoot(t, tt.content), tt.database)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !apperror.IsKind(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestVerify_UsesHandlerTable(t *testing.T) {
	root := magentoRoot(t, fmt.Sprintf(localXML, "shop_live"))

	err := Verify(Detection{Kind: MagentoOne, ProjectRoot: root}, "test_db")
	if !apperror.IsKind(err, apperror.KindConfigurationMismatch) {
		t.Errorf("expected ConfigurationMismatch, got %v", err)
	}

	if err := Verify(Detection{Kind: None}, "test_db"); err != nil {
		t.Errorf("expected no check for None, got %v", err)
	}
}
