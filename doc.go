// Package quizhall holds the domain model and services behind the quizhall
// server: user accounts, quizzes, and grading.
//
// # Key Components
//
//   - UserService: registers users and validates basic auth credentials
//   - QuizService: creates, lists and deletes quizzes, grades submissions
//   - UserRepo / QuizRepo: persistence interfaces (PostgreSQL, SQLite)
//
// # Example Usage
//
//	users, err := quizhall.NewUserService(userRepo, quizhall.DefaultPasswordCost)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	quizzes, err := quizhall.NewQuizService(quizRepo, userRepo)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ok, err := users.IsValidUser(ctx, "alice", "s3cretpass")
//
// See the http package for the REST API and the database package for the
// storage backends.
package quizhall
