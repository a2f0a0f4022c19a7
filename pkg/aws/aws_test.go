package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sns.PublishOutput{}, f.err
}

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestSNSClientPublish(t *testing.T) {
	fake := &fakeSNS{}
	client := &SNSClient{client: fake}

	require.NoError(t, client.Publish(context.Background(), "arn:aws:sns:eu-west-2:000000000000:notify", []byte("hello")))
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "hello", *fake.inputs[0].Message)

	assert.Error(t, client.Publish(context.Background(), "", []byte("x")))

	fake.err = errors.New("throttled")
	err := client.Publish(context.Background(), "arn:topic", []byte("x"))
	assert.ErrorContains(t, err, "throttled")
}

func TestMetricsClient(t *testing.T) {
	fake := &fakeCloudWatch{}
	m := &MetricsClient{client: fake, namespace: "Repawtly", enabled: true}

	require.NoError(t, m.RecordCount(context.Background(), MetricCartCheckouts, map[string]string{"Service": "storefront"}))
	require.Len(t, fake.inputs, 1)
	datum := fake.inputs[0].MetricData[0]
	assert.Equal(t, MetricCartCheckouts, *datum.MetricName)
	assert.Equal(t, types.StandardUnitCount, datum.Unit)
	assert.Equal(t, 1.0, *datum.Value)

	disabled := &MetricsClient{client: fake}
	require.NoError(t, disabled.RecordValue(context.Background(), MetricCheckoutTotal, 513, nil))
	assert.Len(t, fake.inputs, 1)

	var nilClient *MetricsClient
	assert.False(t, nilClient.IsEnabled())
	assert.NoError(t, nilClient.RecordCount(context.Background(), MetricCartCheckouts, nil))
}

type fakeLogs struct {
	groupErr error
	streams  []string
	events   []*cloudwatchlogs.PutLogEventsInput
	putErr   error
}

func (f *fakeLogs) CreateLogGroup(context.Context, *cloudwatchlogs.CreateLogGroupInput, ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	return &cloudwatchlogs.CreateLogGroupOutput{}, f.groupErr
}

func (f *fakeLogs) CreateLogStream(_ context.Context, in *cloudwatchlogs.CreateLogStreamInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	f.streams = append(f.streams, *in.LogStreamName)
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func (f *fakeLogs) PutLogEvents(_ context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.events = append(f.events, in)
	next := fmt.Sprintf("token-%d", len(f.events))
	return &cloudwatchlogs.PutLogEventsOutput{NextSequenceToken: &next}, nil
}

func TestLogsWriter(t *testing.T) {
	fake := &fakeLogs{groupErr: &logtypes.ResourceAlreadyExistsException{}}

	w, err := newLogsWriter(context.Background(), fake, "", "storefront")
	require.NoError(t, err)
	require.Len(t, fake.streams, 1)
	assert.Contains(t, fake.streams[0], "storefront-")

	n, err := w.Write([]byte(`{"msg":"one"}`))
	require.NoError(t, err)
	assert.Equal(t, 13, n)
	_, err = w.Write([]byte(`{"msg":"two"}`))
	require.NoError(t, err)

	require.Len(t, fake.events, 2)
	assert.Equal(t, "/repawtly/storefront", *fake.events[0].LogGroupName)
	assert.Nil(t, fake.events[0].SequenceToken)
	assert.Equal(t, "token-1", *fake.events[1].SequenceToken)
	assert.Equal(t, `{"msg":"two"}`, *fake.events[1].LogEvents[0].Message)

	fake.putErr = errors.New("throttled")
	n, err = w.Write([]byte("x"))
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLogsWriterGroupFailure(t *testing.T) {
	_, err := newLogsWriter(context.Background(), &fakeLogs{groupErr: errors.New("denied")}, "g", "storefront")
	assert.ErrorContains(t, err, "denied")
}
