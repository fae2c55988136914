// Package postgreswrapper runs repository tests against every database adapter that sqlmock can back.
package postgreswrapper
