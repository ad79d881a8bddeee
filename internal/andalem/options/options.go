package options

import (
	genericoptions "github.com/kiosk404/andalem/internal/pkg/options"
	"github.com/kiosk404/andalem/pkg/utils/cliflag"
	"github.com/kiosk404/andalem/pkg/utils/json"
)

type Options struct {
	GenericServerRunOptions *genericoptions.ServerRunOptions `json:"server"  mapstructure:"server"`
	ModelOptions            *genericoptions.ModelOptions     `json:"models"  mapstructure:"models"`
	ToolOptions             *genericoptions.ToolOptions      `json:"tools"   mapstructure:"tools"`
	MemoryOptions           *genericoptions.MemoryOptions    `json:"memory"  mapstructure:"memory"`
	LogOptions              *genericoptions.LogOptions       `json:"log"     mapstructure:"log"`
	StoreOptions            *StoreOptions                    `json:"store"   mapstructure:"store"`
	AuthOptions             *AuthOptions                     `json:"auth"    mapstructure:"auth"`
}

func (o *Options) Flags() (fss cliflag.NamedFlagSets) {
	o.GenericServerRunOptions.AddFlags(fss.FlagSet("generic"))
	o.ModelOptions.AddFlags(fss.FlagSet("models"))
	o.ToolOptions.AddFlags(fss.FlagSet("tools"))
	o.MemoryOptions.AddFlags(fss.FlagSet("memory"))
	o.StoreOptions.AddFlags(fss.FlagSet("store"))
	o.AuthOptions.AddFlags(fss.FlagSet("auth"))
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	return fss
}

func NewOptions() *Options {
	return &Options{
		GenericServerRunOptions: genericoptions.NewServerRunOptions(),
		ModelOptions:            genericoptions.NewModelOptions(),
		ToolOptions:             genericoptions.NewToolOptions(),
		MemoryOptions:           genericoptions.NewMemoryOptions(),
		LogOptions:              genericoptions.NewLogOptions(),
		StoreOptions:            NewStoreOptions(),
		AuthOptions:             NewAuthOptions(),
	}
}

// Validate checks every option group.
func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.GenericServerRunOptions.Validate()...)
	errs = append(errs, o.ModelOptions.Validate()...)
	errs = append(errs, o.ToolOptions.Validate()...)
	errs = append(errs, o.MemoryOptions.Validate()...)
	errs = append(errs, o.LogOptions.Validate()...)
	errs = append(errs, o.StoreOptions.Validate()...)
	return errs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}

// Complete set default Options.
func (o *Options) Complete() error {
	if o.StoreOptions.Type == "" {
		o.StoreOptions.Type = NewStoreOptions().Type
	}
	return nil
}
