package stats

/*
This file defines all the metrics being collected. As new metrics are added please follow this pattern.
*/

const (
	/************************* Submission metrics **************************/
	/*
		the number of pending jobs seen by the last job scheduler tick
	*/
	SchedPendingJobsGauge = "pendingJobsGauge"

	/*
		the number of submission tasks started
	*/
	SchedSubmitTaskCounter = "submitTaskCounter"

	/*
		the number of jobs accepted by a contact
	*/
	SchedJobSubmittedCounter = "jobSubmittedCounter"

	/*
		the number of submission cycles deferred because no contact met the memory demand
	*/
	SchedNoCandidateCounter = "noCandidateCounter"

	/*
		the number of submission cycles in which every candidate refused or failed
	*/
	SchedSubmitFailedCounter = "submitFailedCounter"

	/*
		the number of jobs failed after reaching the submittal attempt ceiling
	*/
	SchedJobAbandonedCounter = "jobAbandonedCounter"

	/*
		the number of submission results dropped because the job changed since the task read it
	*/
	SchedSubmitConflictCounter = "submitConflictCounter"

	/*
		time taken by one submission task
	*/
	SchedSubmitLatency_ms = "submitLatency_ms"

	/************************* Reconciliation metrics **************************/
	/*
		the number of update tasks started
	*/
	SchedUpdateTaskCounter = "updateTaskCounter"

	/*
		the number of update tasks that could not fetch the remote job
	*/
	SchedUpdateRemoteErrCounter = "updateRemoteErrCounter"

	/*
		the number of jobs that ended successfully / unsuccessfully on their contact
	*/
	SchedJobSucceededCounter = "jobSucceededCounter"
	SchedJobFailedCounter    = "jobFailedCounter"

	/*
		the number of remote events imported as job messages
	*/
	SchedJobMessagesImportedCounter = "jobMessagesImportedCounter"

	/*
		the number of delete job data calls that failed after retrying
	*/
	SchedDeleteJobDataErrCounter = "deleteJobDataErrCounter"

	/*
		the number of cancel requests acknowledged / refused by contacts
	*/
	SchedCancelAckCounter = "cancelAckCounter"
	SchedCancelErrCounter = "cancelErrCounter"

	/************************* Health metrics **************************/
	/*
		the number of status checks started
	*/
	SchedStatusTaskCounter = "statusTaskCounter"

	/*
		the number of contacts marked unreachable
	*/
	SchedContactUnreachableCounter = "contactUnreachableCounter"

	/*
		the number of status reports rejected for a name mismatch
	*/
	SchedContactIntegrityErrCounter = "contactIntegrityErrCounter"

	/*
		the number of admin messages that could not be stored
	*/
	SchedAdminMessageErrCounter = "adminMessageErrCounter"

	/*
		time taken by one status check
	*/
	SchedStatusLatency_ms = "statusLatency_ms"

	/*
		the number of status reports pruned by retention
	*/
	SchedReportsPrunedCounter = "reportsPrunedCounter"

	/************************* Loop & pool metrics **************************/
	/*
		the number of ticks that failed to query the store
	*/
	SchedTickStoreErrCounter = "tickStoreErrCounter"

	/*
		the number of tasks currently holding a pool slot
	*/
	PoolRunningTasksGauge = "runningTasksGauge"

	/*
		the number of tasks that panicked
	*/
	PoolTaskPanicCounter = "taskPanicCounter"

	/************************* Remote client metrics **************************/
	/*
		the number of requests issued to contacts / answered with an error
	*/
	RemoteRequestCounter    = "requestCounter"
	RemoteRequestErrCounter = "requestErrCounter"

	/*
		round trip time of contact requests
	*/
	RemoteRequestLatency_ms = "requestLatency_ms"
)
