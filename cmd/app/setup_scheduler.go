package main

import (
	"crypto/rand"
	"log"
	"math/big"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/trustguard/trustguard/config"
	"github.com/trustguard/trustguard/contacts"
	"github.com/trustguard/trustguard/tasks"
)

func setupScheduler(scheduler gocron.Scheduler, book *contacts.Book, instanceConfig *config.InstanceConfig) error {
	return scheduleAuditTask(scheduler, book, instanceConfig)
}

func scheduleAuditTask(scheduler gocron.Scheduler, book *contacts.Book, instanceConfig *config.InstanceConfig) error {
	if instanceConfig.AuditIntervalMinutes <= 0 {
		log.Printf("TG_AUDIT_INTERVAL_MINUTES must be greater than 0. Using default of 60 minutes.")
		instanceConfig.AuditIntervalMinutes = 60
	}

	minInterval, maxInterval := jitteredInterval(instanceConfig.AuditIntervalMinutes)
	runAudit := func() {
		tasks.AuditContactBook(book)
	}
	auditTask, err := scheduler.NewJob(gocron.DurationRandomJob(minInterval, maxInterval), gocron.NewTask(runAudit), gocron.WithName("AuditContactBook"))
	if err != nil {
		return err
	}

	log.Printf("Scheduled contact book audit every ~%d minutes: %s", instanceConfig.AuditIntervalMinutes, auditTask.ID())
	runTaskNowish(auditTask)

	return nil
}

// jitteredInterval - the range covering +/- 10% of the given number of minutes, so several processes sharing a
// database don't all audit at once.
func jitteredInterval(minutes int) (time.Duration, time.Duration) {
	// Seconds rather than minutes, otherwise 10% of a short interval rounds to nothing.
	variance := time.Duration(float64(minutes*60)*0.1) * time.Second
	minInterval := (time.Duration(minutes) * time.Minute) - variance
	maxInterval := (time.Duration(minutes) * time.Minute) + variance

	// "should never happen" clauses
	if minInterval < time.Minute {
		minInterval = time.Minute
	}
	if maxInterval < minInterval {
		maxInterval = minInterval + time.Minute
	}
	return minInterval, maxInterval
}

// runTaskNowish - Runs a gocron task as quickly as possible, with a small delay to avoid overlapping calls. The task will
// wait asynchronously to run, so this will return immediately regardless of whether the task is running.
func runTaskNowish(task gocron.Job) {
	go func() {
		// we don't *need* a cryptographic random number here, but security audits might complain if we don't
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			log.Printf("Non-fatal error generating jitter for task %s: %v", task.ID(), err)
			n = big.NewInt(4)
		}
		<-time.After(time.Duration(n.Int64()) * time.Second)
		if err = task.RunNow(); err != nil {
			log.Printf("Non-fatal error trying to run task %s immediately: %v", task.ID(), err)
		}
	}()
}
