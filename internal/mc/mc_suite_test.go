package mc_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mcsim/internal/catalog"
)

func TestMC(t *testing.T) {
	catalog.Register()
	RegisterFailHandler(Fail)
	RunSpecs(t, "Monte Carlo Suite")
}
