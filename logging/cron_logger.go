package logging

import "log"

// CronLogger - routes gocron's scheduler logs through the process logger with a level tag.
type CronLogger struct {
	// Implements gocron.Logger
}

func (c *CronLogger) Debug(msg string, args ...any) {
	c.print("DEBUG", msg, args)
}

func (c *CronLogger) Error(msg string, args ...any) {
	c.print("ERROR", msg, args)
}

func (c *CronLogger) Info(msg string, args ...any) {
	c.print("INFO", msg, args)
}

func (c *CronLogger) Warn(msg string, args ...any) {
	c.print("WARN", msg, args)
}

func (c *CronLogger) print(level string, msg string, args []any) {
	// gocron passes key/value pairs rather than format arguments
	if len(args) == 0 {
		log.Printf("[%s] [cron] %s", level, msg)
		return
	}
	log.Printf("[%s] [cron] %s %v", level, msg, args)
}
