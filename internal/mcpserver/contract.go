package mcpserver

// IntakeContract is the canonical shape of an incident report. Assistants
// should collect these facts from the person reporting before calling
// submit_report, and never invent details the reporter did not give.
const IntakeContract = `# CyberShield Incident Report Format

A report creates a tracked case with a CS-nnnnnn identifier. Collect the
following before submitting:

## Required

- **description** — what happened, in the reporter's own words.
  Minimum 10 characters after trimming whitespace. Include, where known:
  - the platform or app where it happened
  - what kind of behaviour (harassment, threats, impersonation,
    image-based abuse, blackmail)
  - how long it has been going on and whether it is still ongoing

## Optional

- **reporter_name** — the reporter's name, at most 80 characters.
  Omit it (or set is_anonymous) to file anonymously; anonymous cases
  are recorded under the name "Anonymous".
- **is_anonymous** — true to withhold the reporter's identity.
- **evidence_links** — URLs to screenshots, profiles, or messages,
  one per line. Links are stored verbatim with the case.

## After submission

Give the reporter their case identifier (CS-nnnnnn) and tell them to
keep it: it is the only handle for tracking the case later. If the
reporter is in immediate danger, direct them to the emergency hotline
(999) before anything else.
`
