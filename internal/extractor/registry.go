package extractor

import (
	"fmt"
	"sort"
	"sync"

	"FashionSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// ========== 全局策略工厂注册表（策略包init时调用Register） ==========
var (
	registryMu      sync.Mutex
	factoryRegistry = make(map[string]interfaces.Factory)
)

// Register 供策略包init函数调用，注册工厂函数
func Register(name string, factory interfaces.Factory) {
	if factory == nil {
		panic(fmt.Sprintf("策略%s的工厂函数不能为nil", name))
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := factoryRegistry[name]; exists {
		logrus.Warnf("策略%s已注册，将覆盖原有实现", name)
	}
	factoryRegistry[name] = factory
	logrus.Infof("策略%s工厂函数注册成功", name)
}

// GetFactory 获取指定策略的工厂函数
func GetFactory(name string) (interfaces.Factory, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factory, ok := factoryRegistry[name]
	return factory, ok
}

// ListFactories 列出所有已注册的策略名，按名称排序保证输出稳定
func ListFactories() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	var names []string
	for n := range factoryRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
