package conf

import "fmt"

// EnvironmentEnum deployment environment
type EnvironmentEnum string

const (
	LocalEnvironmentEnum   EnvironmentEnum = "loc"
	DevEnvironmentEnum     EnvironmentEnum = "dev"
	ProdEnvironmentEnum    EnvironmentEnum = "prod"
	ExampleEnvironmentEnum EnvironmentEnum = "example"
)

// SystemEnvironmentEnum active environment, set from the -env flag before InitConfig
var SystemEnvironmentEnum = LocalEnvironmentEnum

// GetYaml configuration file path for the active environment
func GetYaml() string {
	return fmt.Sprintf("conf/conf_%s.yaml", SystemEnvironmentEnum)
}
