// Package resource is the static registry of resource-type knowledge:
// which types accept tags and which tag keys governance requires.
// Pure lookups, no I/O.
package resource

import (
	"fmt"
	"sort"
	"strings"
)

// taggable is the set of AWS resource types known to accept a tags
// attribute.
var taggable = map[string]struct{}{
	// Compute
	"aws_instance":             {},
	"aws_launch_template":      {},
	"aws_spot_fleet_request":   {},
	"aws_placement_group":      {},
	"aws_capacity_reservation": {},
	"aws_ec2_fleet":            {},

	// Containers
	"aws_ecr_repository":      {},
	"aws_ecs_cluster":         {},
	"aws_ecs_service":         {},
	"aws_ecs_task_definition": {},
	"aws_eks_cluster":         {},
	"aws_eks_fargate_profile": {},
	"aws_eks_node_group":      {},

	// Storage
	"aws_s3_bucket":                {},
	"aws_ebs_volume":               {},
	"aws_efs_file_system":          {},
	"aws_fsx_lustre_file_system":   {},
	"aws_fsx_windows_file_system":  {},

	// Database
	"aws_db_instance":         {},
	"aws_rds_cluster":         {},
	"aws_dynamodb_table":      {},
	"aws_elasticache_cluster": {},
	"aws_redshift_cluster":    {},
	"aws_neptune_cluster":     {},
	"aws_docdb_cluster":       {},

	// Networking
	"aws_vpc":                    {},
	"aws_subnet":                 {},
	"aws_security_group":         {},
	"aws_vpc_endpoint":           {},
	"aws_lb":                     {},
	"aws_vpc_peering_connection": {},
	"aws_vpn_connection":         {},
	"aws_vpn_gateway":            {},
	"aws_nat_gateway":            {},
	"aws_network_acl":            {},
	"aws_route_table":            {},

	// IAM / Security
	"aws_iam_role":             {},
	"aws_iam_policy":           {},
	"aws_iam_instance_profile": {},
	"aws_iam_user":             {},
	"aws_iam_group":            {},
	"aws_kms_key":              {},
	"aws_secretsmanager_secret": {},

	// Monitoring & Management
	"aws_cloudwatch_log_group":            {},
	"aws_sns_topic":                       {},
	"aws_sqs_queue":                       {},
	"aws_ssm_parameter":                   {},
	"aws_cloudtrail":                      {},
	"aws_config_configuration_recorder":   {},

	// Analytics
	"aws_athena_workgroup":                  {},
	"aws_emr_cluster":                       {},
	"aws_glue_crawler":                      {},
	"aws_glue_job":                          {},
	"aws_kinesis_stream":                    {},
	"aws_kinesis_firehose_delivery_stream":  {},

	// Application Integration
	"aws_mq_broker":                 {},
	"aws_sfn_state_machine":         {},
	"aws_batch_compute_environment": {},

	// Developer Tools
	"aws_codebuild_project":     {},
	"aws_codecommit_repository": {},
	"aws_codepipeline":          {},

	// Machine Learning
	"aws_sagemaker_endpoint":          {},
	"aws_sagemaker_model":             {},
	"aws_sagemaker_notebook_instance": {},

	// Migration & Transfer
	"aws_dms_replication_instance": {},
	"aws_transfer_server":          {},

	// Serverless
	"aws_lambda_function":   {},
	"aws_apigatewayv2_api":  {},
	"aws_apigatewayv2_stage": {},

	// Search
	"aws_opensearch_domain":    {},
	"aws_elasticsearch_domain": {},

	// Other
	"aws_ecr_registry":                  {},
	"aws_msk_cluster":                   {},
	"aws_elastic_beanstalk_environment": {},
	"aws_workspaces_workspace":          {},
}

// defaultRequiredTags is the governance baseline. Overridable per run via
// config or the --required-tags flag.
var defaultRequiredTags = []string{
	"Name",        // Resource identifier
	"Environment", // prod, staging, dev
	"Project",     // Project or application name
	"Owner",       // Team or individual responsible
	"Cost-Center", // Cost allocation
	"Terraform",   // Managed-by marker
}

// SupportsTags reports whether the resource type is known to accept tags.
func SupportsTags(resourceType string) bool {
	_, ok := taggable[resourceType]
	return ok
}

// DefaultRequiredTags returns the baseline required tag set as a fresh set.
func DefaultRequiredTags() map[string]struct{} {
	set := make(map[string]struct{}, len(defaultRequiredTags))
	for _, t := range defaultRequiredTags {
		set[t] = struct{}{}
	}
	return set
}

// RequiredTagSet builds a required set from an explicit list, falling back
// to the defaults when the list is empty.
func RequiredTagSet(tags []string) map[string]struct{} {
	if len(tags) == 0 {
		return DefaultRequiredTags()
	}
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// ProviderOf extracts the provider prefix from a resource type
// ("aws_instance" -> "aws").
func ProviderOf(resourceType string) string {
	if i := strings.Index(resourceType, "_"); i > 0 {
		return resourceType[:i]
	}
	return resourceType
}

// ServiceOf extracts the service segment from a resource type
// ("aws_ecs_cluster" -> "ecs").
func ServiceOf(resourceType string) string {
	parts := strings.SplitN(resourceType, "_", 3)
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}

// SuggestFixes returns remediation hints for a resource with tag issues.
func SuggestFixes(currentTags map[string]struct{}, required map[string]struct{}, hasTagsVar bool) []string {
	var suggestions []string

	if !hasTagsVar {
		suggestions = append(suggestions,
			`Add a 'tags' variable to the module:`,
			`
    variable "tags" {
      description = "Common tags for all resources"
      type        = map(string)
      default     = {}
    }`)
	}

	var missing []string
	for tag := range required {
		if _, ok := currentTags[tag]; !ok {
			missing = append(missing, tag)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		suggestions = append(suggestions,
			fmt.Sprintf("Add missing required tags: %s", strings.Join(missing, ", ")))
	}

	suggestions = append(suggestions,
		"Ensure tags are properly propagated:",
		`
    tags = merge(
      var.tags,
      {
        Name = "${var.name_prefix}-example"
      }
    )`)

	return suggestions
}
