package platform

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"dbctx/internal/apperror"
)

// Check asserts that the platform rooted at projectRoot is configured to use
// databaseName.
type Check func(projectRoot, databaseName string) error

// checks holds one entry per platform that can be verified. A platform
// without an entry needs no check.
var checks = map[Kind]Check{
	MagentoOne: CheckMagentoOne,
}

// Verify runs the check registered for the detected platform
func Verify(d Detection, databaseName string) error {
	check, ok := checks[d.Kind]
	if !ok {
		return nil
	}
	return check(d.ProjectRoot, databaseName)
}

type magentoOneLocalXML struct {
	Global struct {
		Resources struct {
			DefaultSetup struct {
				Connection struct {
					DBName *string `xml:"dbname"`
				} `xml:"connection"`
			} `xml:"default_setup"`
		} `xml:"resources"`
	} `xml:"global"`
}

// CheckMagentoOne reads global/resources/default_setup/connection/dbname from
// local.xml and compares it with databaseName.
func CheckMagentoOne(projectRoot, databaseName string) error {
	path := filepath.Join(projectRoot, MagentoOneLocalXML)
	data, err := os.ReadFile(path)
	if err != nil {
		return &apperror.Error{
			Kind:    apperror.KindConfiguration,
			Message: fmt.Sprintf("failed to read %s", path),
			Err:     err,
		}
	}

	var local magentoOneLocalXML
	if err := xml.Unmarshal(data, &local); err != nil {
		return &apperror.Error{
			Kind:    apperror.KindConfiguration,
			Message: fmt.Sprintf("failed to parse %s", path),
			Err:     err,
		}
	}

	dbName := local.Global.Resources.DefaultSetup.Connection.DBName
	if dbName == nil {
		return apperror.Configuration("dbname", "You need to configure a dbname in your local.xml")
	}

	if *dbName == databaseName {
		return nil
	}

	return apperror.ConfigurationMismatch(
		fmt.Sprintf("You need to configure Magento to use the testing database '%s' in local.xml", databaseName))
}
