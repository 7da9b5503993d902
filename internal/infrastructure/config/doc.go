// Package config handles loading and validating resumed configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (RESUMED_* and PORT)
//   - Validation of required fields
//   - Default value handling
//
// Deployment Profiles:
//
// The container image can run in two shapes. Both use one process with
// eight concurrent renders:
//
//	# platform: PORT injected by the host, bind 0.0.0.0, 120s timeout
//	api:    { host: "0.0.0.0" }
//	render: { timeout: 120 }
//
//	# standalone: PORT defaults to 8080, bind all interfaces, no timeout
//	api:    { host: "" }
//	render: { timeout: 0 }
//
// Security Considerations:
//   - Sensitive values (passwords, tokens, keys) should be set via environment variables
//   - JWT secrets must be at least 32 characters when auth is enabled
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Addr())
package config
