// Package client provides a client library for the quizhall HTTP API.
//
// It covers the user API (signup, listing, deletion) and the basic auth
// protected quiz API (create, list, show, delete, submit answers). The
// package includes profile-based configuration for managing connections to
// multiple servers.
//
// # Basic Usage
//
// Create a client and take a quiz:
//
//	cfg := &client.Config{
//		Endpoint: "http://localhost:8080",
//		Username: "alice",
//		Password: "s3cret-pass",
//	}
//
//	c, err := client.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := c.Submit(ctx, quizID, []int{0, 2, 1})
//
// # Profile Configuration
//
// Use profiles to manage multiple server configurations:
//
//	configFile, err := client.LoadConfigFile(client.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("staging")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	c, err := client.New(client.ConfigFromProfile(profile))
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := client.NewFormatter(jsonOutput, quiet)
//	formatter.FormatQuizzes(os.Stdout, quizzes)
package client
