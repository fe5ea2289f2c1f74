package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule validates a cron expression using the robfig/cron/v3 parser.
// This function uses the standard cron parser to ensure the schedule is valid
// and can be properly parsed by the cron scheduler.
//
// The cron expression must follow the standard cron format:
//   - "minute hour day month weekday"
//   - Example: "30 5 * * *" (every day at 5:30)
//   - Example: "0 */6 * * *" (every 6 hours)
//   - Example: "30 9 * * 1-5" (weekdays at 9:30)
//
// Parameters:
//   - schedule: Cron expression to validate
//
// Returns:
//   - error: nil if valid, descriptive error otherwise
//
// Error messages include details about what went wrong, making them
// actionable for operators fixing configuration issues.
//
// Example:
//
//	err := ValidateCronSchedule("30 5 * * *")
//	if err != nil {
//	    log.Error("Invalid cron schedule: %v", err)
//	}
//
// Validation tool: https://crontab.guru/
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	return nil
}

// ValidateIntRange validates that an integer value is within a specified range.
// This function checks both minimum and maximum bounds, ensuring the
// value is not too small or too large.
//
// Validation rules:
//   - value must be >= min (inclusive)
//   - value must be <= max (inclusive)
//   - min must be <= max (checked internally)
//
// Parameters:
//   - value: Integer value to validate
//   - min: Minimum allowed value (inclusive)
//   - max: Maximum allowed value (inclusive)
//
// Returns:
//   - error: nil if valid, descriptive error otherwise
//
// Error messages include the actual value and the valid range,
// helping operators understand the limits.
//
// Example:
//
//	// Validate parallelism is between 1 and 50
//	err := ValidateIntRange(10, 1, 50)
//	if err != nil {
//	    log.Error("Invalid parallelism: %v", err)
//	}
//
// Use cases:
//   - Parallelism validation (e.g., 1-50 concurrent operations)
//   - Port number validation (e.g., 1024-65535)
//   - Count validation (e.g., 0-1000 items)
//   - Retry attempt validation (e.g., 0-10 retries)
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}

	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}

	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}

	return nil
}

// ValidatePositiveDuration validates that a duration is positive (greater than zero).
// This is a common validation for timeouts, delays, and intervals that must
// have a non-zero, non-negative value.
//
// Validation rule:
//   - duration must be > 0 (strictly positive)
//
// Parameters:
//   - duration: Duration value to validate
//
// Returns:
//   - error: nil if positive, descriptive error otherwise
//
// Error messages include the actual value, making it clear what went wrong.
//
// Example:
//
//	err := ValidatePositiveDuration(30 * time.Minute)
//	if err != nil {
//	    log.Error("Invalid timeout: %v", err)
//	}
//
// Use cases:
//   - Timeout validation (must be positive)
//   - Retry delay validation (must be positive)
//   - Interval validation (must be positive)
//   - Cache TTL validation (must be positive)
//
// Common mistakes:
//   - Using zero duration (indicates infinite or disabled behavior)
//   - Using negative duration (invalid)
//
// This is equivalent to ValidateDuration(d, 1*time.Nanosecond, time.Duration(max int64))
// but with a clearer error message for the common case.
func ValidatePositiveDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}

	return nil
}

// ValidateDuration validates that a duration lies between min and max (both inclusive).
func ValidateDuration(duration, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if duration < min {
		return fmt.Errorf("duration %v is below minimum %v", duration, min)
	}
	if duration > max {
		return fmt.Errorf("duration %v exceeds maximum %v", duration, max)
	}
	return nil
}

// ValidateTimezone validates that tz is a non-empty IANA location name that
// time.LoadLocation can load (for example "UTC" or "Asia/Tokyo").
func ValidateTimezone(tz string) error {
	if tz == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", tz, err)
	}
	return nil
}
