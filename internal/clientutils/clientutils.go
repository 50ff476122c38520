package clientutils

import (
	"mrboard/internal/domain/mergerequest"
	"mrboard/internal/persistance"
	"mrboard/internal/pkg/gitlab"

	"github.com/spf13/viper"
)

type ClientFactory struct{}

func (cf ClientFactory) DefaultClient(v *viper.Viper) (*gitlab.Client, error) {
	return gitlab.DefaultClient(v)
}

func (cf ClientFactory) DefaultProjectCache(v *viper.Viper) (*persistance.XDGProjectCache, error) {
	return persistance.NewProjectCache(v.GetString("cache.path"))
}

// DefaultListService wires the gitlab client and the project cache into a
// list service. The client is returned too for the peripheral endpoints.
func (cf ClientFactory) DefaultListService(v *viper.Viper) (*mergerequest.ListService, *gitlab.Client, error) {
	cl, err := cf.DefaultClient(v)
	if err != nil {
		return nil, nil, err
	}

	cache, err := cf.DefaultProjectCache(v)
	if err != nil {
		return nil, nil, err
	}

	return mergerequest.NewListService(cl, cl, cache), cl, nil
}
