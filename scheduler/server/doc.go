/*
package server provides the Dispatcher, which places pending jobs on contacts
and keeps the store in line with what the contacts report.

* Loops *
Four independent fixed rate loops share one worker pool. A tick only reads
the store and hands rows to tasks, it never waits for a task.

JobScheduler:
  Every pending job gets a submission task, staggered by StaggerDelay so that
  a backlog does not hit the same best candidate all at once.

JobWatcher:
  Claims at most one submitted job not checked within JobCheckThreshold and
  reconciles it with its contact.

ContactWatcher:
  Claims at most one contact not checked within ContactCheckThreshold and
  refreshes its capacity and reachability.

ReportPruner:
  Drops status reports older than ReportRetention.

* Tasks *
Submission:
  Candidates are tried in rank order until one accepts. A cycle where none
  accepts costs one attempt; after MaxSubmittalAttempts the job fails. A cycle
  without any candidate costs nothing.

Update:
  Remote end times become local end transitions, remote events become job
  messages (imported once by id). A job that just ended gets its remote data
  deleted, best effort.

Status:
  A good report updates the contact and is kept as history. Any failure marks
  the contact unreachable and raises an admin message.

Cancel:
  Asks the contact to cancel and rechecks the job shortly after.
*/
package server
