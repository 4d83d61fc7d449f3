package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mkolari/procflow/internal/domain/entity"
)

// LoadTemplates reads the template catalog from a YAML file. Structural
// validation happens when the templates are registered.
func LoadTemplates(path string) ([]*entity.Template, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read template catalog: %w", err)
	}

	var catalog struct {
		Templates []*entity.Template `mapstructure:"templates"`
	}
	if err := v.Unmarshal(&catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template catalog: %w", err)
	}
	if len(catalog.Templates) == 0 {
		return nil, fmt.Errorf("template catalog %s defines no templates", path)
	}
	return catalog.Templates, nil
}
