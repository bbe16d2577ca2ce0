package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/tierforge/tierforge/internal/cache"
	"github.com/tierforge/tierforge/internal/config"
	"github.com/tierforge/tierforge/internal/gateway"
	"github.com/tierforge/tierforge/internal/logger"
)

// BaseServiceTestSuite gives service tests a fresh set of in-memory
// stores, a simulated gateway, and a context per test.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	logger   *logger.Logger
	config   *config.Configuration
	stores   *Stores
	cache    cache.Cache
	registry *gateway.Registry
}

func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.logger = NewTestLogger()
	s.config = config.GetDefaultConfig()
	s.stores = NewInMemoryStores()
	s.cache = NewTestCache()
	s.registry = NewTestGatewayRegistry(s.logger)
}

func (s *BaseServiceTestSuite) GetContext() context.Context { return s.ctx }
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger { return s.logger }
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration { return s.config }
func (s *BaseServiceTestSuite) GetStores() *Stores { return s.stores }
func (s *BaseServiceTestSuite) GetCache() cache.Cache { return s.cache }
func (s *BaseServiceTestSuite) GetGatewayRegistry() *gateway.Registry {
	return s.registry
}
