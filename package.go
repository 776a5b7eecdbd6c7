//
// web service that runs procurement maturity assessments.
// participants answer question sets for one or more procurement
// themes; answers are kept per organization and the service reports
// the organization's maturity per focused area and theme against
// industry benchmarks, with static and generated recommendations.
//
package procmaturity
