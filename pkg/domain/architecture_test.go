package domain

import (
	"testing"

	"contentcore/testutil"
)

// The domain package defines the entity vocabulary shared by every layer.
// It must not pull in storage, service, or third-party code.
func TestDomainStaysDependencyFree(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.AnyOf(
			testutil.ThirdPartyImport,
			testutil.ImportUnder("contentcore/internal"),
			testutil.ImportUnder("contentcore/cmd"),
		),
		"domain types are consumed by every layer and stay stdlib-only")
}
