/*
Package cli implements the dispatcher command line.

	dispatcher serve                      run the loops and the admin endpoint
	dispatcher contact add ENDPOINT       name check and register a contact
	dispatcher contact list
	dispatcher job create --workflow FILE queue a job
	dispatcher job cancel JOB_ID
	dispatcher job messages JOB_ID
	dispatcher admin messages

Commands other than serve act directly on the configured store, so they are
only useful with a shared store such as local.postgres.
*/
package cli
