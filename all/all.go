// Package all imports all supported repository implementations.
//
// Import this package for its side effects to register every repository kind:
//
//	import (
//		"github.com/git-pkgs/updatecheck"
//		_ "github.com/git-pkgs/updatecheck/all"
//	)
//
//	// Now all kinds are available
//	kinds := updatecheck.SupportedKinds()
//	// ["maven"]
package all

import (
	_ "github.com/git-pkgs/updatecheck/internal/maven"
)
