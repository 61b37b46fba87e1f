// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package consts

// MetricsNamespace is the prefix of every metric exposed by procmond.
const MetricsNamespace = "procmond"
