// Package services: services/metrics_service.go
package services

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"fashion-registration/logger"
	"fashion-registration/models"
)

// MetricsPublisher records registration counters. Only counts are published,
// never form data.
type MetricsPublisher interface {
	RegistrationSubmitted(pt models.ParticipantType)
	ValidationFailed(fieldCount int)
}

// NoopMetrics discards every metric.
type NoopMetrics struct{}

// RegistrationSubmitted does nothing.
func (NoopMetrics) RegistrationSubmitted(models.ParticipantType) {}

// ValidationFailed does nothing.
func (NoopMetrics) ValidationFailed(int) {}

// CloudWatchMetrics pushes counters to Amazon CloudWatch.
type CloudWatchMetrics struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
}

// NewCloudWatchMetrics creates a publisher using the default AWS credential chain.
func NewCloudWatchMetrics(namespace string) (*CloudWatchMetrics, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	return NewCloudWatchMetricsWithClient(cloudwatch.New(sess), namespace), nil
}

// NewCloudWatchMetricsWithClient wraps an existing CloudWatch client.
func NewCloudWatchMetricsWithClient(client cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatchMetrics {
	return &CloudWatchMetrics{client: client, namespace: namespace}
}

// RegistrationSubmitted counts one accepted registration per participant type.
func (m *CloudWatchMetrics) RegistrationSubmitted(pt models.ParticipantType) {
	m.putMetric("RegistrationsSubmitted", 1, cloudwatch.StandardUnitCount, "ParticipantType", string(pt))
}

// ValidationFailed records a rejected submit and how many fields were invalid.
func (m *CloudWatchMetrics) ValidationFailed(fieldCount int) {
	m.putMetric("InvalidFieldsPerRejectedSubmit", float64(fieldCount), cloudwatch.StandardUnitCount, "", "")
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func (m *CloudWatchMetrics) putMetric(metricName string, value float64, unit, dimName, dimValue string) {
	datum := &cloudwatch.MetricDatum{
		MetricName: aws.String(metricName),
		Timestamp:  aws.Time(time.Now()),
		Value:      aws.Float64(value),
		Unit:       aws.String(unit),
	}
	if dimName != "" {
		datum.Dimensions = []*cloudwatch.Dimension{
			{Name: aws.String(dimName), Value: aws.String(dimValue)},
		}
	}

	_, err := m.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []*cloudwatch.MetricDatum{datum},
	})
	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
